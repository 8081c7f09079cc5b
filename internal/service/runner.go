package service

import (
	"context"

	"github.com/relcut/relcut/internal/domain"
)

// RunnerService defines the interface for the delegated multi-repository
// command runner. A non-fanout step is applied to the umbrella workspace; a
// fanout step is applied to every managed sub-repository in manifest order.
// The fan-out mechanics are the runner's concern, not ours.

type RunnerService interface {
	// Name returns the runner command name used when rendering pipelines.
	Name() string
	// Run executes a single step and returns the step's failure, if any.
	Run(ctx context.Context, step domain.Step) error
}
