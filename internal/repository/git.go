package repository

import "context"

// GitRepository defines read-only introspection of the umbrella workspace
// repository. All mutating git operations go through the delegated
// multi-repository runner, never through this interface.

type GitRepository interface {
	CurrentBranch(ctx context.Context) (string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	RemoteExists(ctx context.Context, name string) (bool, error)
	RemoteURL(ctx context.Context, name string) (string, error)
}
