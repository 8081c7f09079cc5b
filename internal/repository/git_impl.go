package repository

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo *git.Repository
}

// NewGitRepository opens the umbrella repository at the given root.
func NewGitRepository(root string) (GitRepository, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open umbrella repository at %s: %w", root, err)
	}
	return &gitRepository{repo: repo}, nil
}

// CurrentBranch returns the name of the branch HEAD points at.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// TagExists checks if a tag exists in the umbrella repository.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == git.ErrTagNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	return true, nil
}

// RemoteExists checks if the named remote is configured.
func (r *gitRepository) RemoteExists(_ context.Context, name string) (bool, error) {
	_, err := r.repo.Remote(name)
	if err == git.ErrRemoteNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check remote %s: %w", name, err)
	}
	return true, nil
}

// RemoteURL returns the first fetch URL of the named remote.
func (r *gitRepository) RemoteURL(_ context.Context, name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no configured URL", name)
	}
	return urls[0], nil
}
