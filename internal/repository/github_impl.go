package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/relcut/relcut/internal/config"
	"golang.org/x/oauth2"
)

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubRepository creates a new GithubRepository with validation.
func NewGithubRepository(token, owner, repo string) (GithubRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &githubRepository{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// ReleaseExists reports whether a release already exists for the tag.
func (r *githubRepository) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	_, resp, err := r.client.Repositories.GetReleaseByTag(ctx, r.owner, r.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up release for tag %s: %w", tag, err)
	}
	return true, nil
}

// CreateRelease publishes a release for the tag and returns its URL.
func (r *githubRepository) CreateRelease(ctx context.Context, tag, name, body string) (string, error) {
	release := &github.RepositoryRelease{
		TagName: &tag,
		Name:    &name,
		Body:    &body,
	}
	created, _, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, release)
	if err != nil {
		return "", fmt.Errorf("failed to create release for tag %s: %w", tag, err)
	}
	return created.GetHTMLURL(), nil
}
