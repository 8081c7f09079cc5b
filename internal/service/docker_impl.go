package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// dockerService is the implementation of the DockerService interface.
type dockerService struct {
	// timeout for one image build
	timeout time.Duration
}

// NewDockerService creates a new DockerService.
func NewDockerService() DockerService {
	return &dockerService{
		timeout: DefaultDockerTimeout,
	}
}

// buildArgs returns the docker arguments for building the image. --no-cache
// and --pull keep the scientific base layers from going stale between cuts.
func (s *dockerService) buildArgs(recipe, image string) []string {
	return []string{"build", "--no-cache", "--pull", "-t", image, "-f", recipe, "."}
}

// BuildCommand returns the exact command line Build would run.
func (s *dockerService) BuildCommand(recipe, image string) string {
	return "docker " + strings.Join(s.buildArgs(recipe, image), " ")
}

// Build builds an image from the given recipe file.
func (s *dockerService) Build(ctx context.Context, recipe, image string) error {
	if _, err := os.Stat(recipe); err != nil {
		return fmt.Errorf("docker recipe not found: %s: %w", recipe, err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "docker", s.buildArgs(recipe, image)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("docker build timed out after %v for %s", s.timeout, image)
		}
		return fmt.Errorf("docker build failed for %s: %w", image, err)
	}
	return nil
}
