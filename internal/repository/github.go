package repository

import "context"

// GithubRepository defines the interface for GitHub API operations against
// the umbrella repository.

type GithubRepository interface {
	// ReleaseExists reports whether a release already exists for the tag.
	ReleaseExists(ctx context.Context, tag string) (bool, error)
	// CreateRelease publishes a release for the tag and returns its URL.
	CreateRelease(ctx context.Context, tag, name, body string) (string, error)
}
