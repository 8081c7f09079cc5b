package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/relcut/relcut/internal/domain"
)

// runnerService is the implementation of the RunnerService interface.
type runnerService struct {
	name string
	dir  string
	// timeout for a single step
	timeout time.Duration
}

// NewRunnerService creates a RunnerService that invokes the given runner
// command with the workspace root as working directory.
func NewRunnerService(name, dir string) RunnerService {
	return &runnerService{
		name:    name,
		dir:     dir,
		timeout: DefaultStepTimeout,
	}
}

// Name returns the runner command name used when rendering pipelines.
func (s *runnerService) Name() string {
	return s.name
}

// Run executes a single step. Output is streamed straight to the terminal so
// the operator sees git's own progress and errors.
func (s *runnerService) Run(ctx context.Context, step domain.Step) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	argv := make([]string, 0, len(step.Args)+1)
	if step.Fanout {
		argv = append(argv, "foreach")
	}
	argv = append(argv, step.Args...)

	cmd := exec.CommandContext(ctx, s.name, argv...)
	cmd.Dir = s.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("step timed out after %v: %s", s.timeout, step.Render(s.name))
		}
		return fmt.Errorf("step failed: %s: %w", step.Render(s.name), err)
	}
	return nil
}
