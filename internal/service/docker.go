package service

import "context"

// DockerService defines the interface for building Docker images.

type DockerService interface {
	// BuildCommand returns the exact command line Build would run, for
	// dry-run output.
	BuildCommand(recipe, image string) string
	// Build builds an image from the given recipe file.
	Build(ctx context.Context, recipe, image string) error
}
