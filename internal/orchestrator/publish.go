package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/repository"
	"github.com/relcut/relcut/internal/usecase"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// PublishOrchestrator publishes a GitHub release for a tag that was already
// applied by the merge-back pipeline. Publishing is idempotent: an existing
// release for the tag is left untouched.
type PublishOrchestrator struct {
	github repository.GithubRepository
	notes  *usecase.PrepareReleaseNotesUseCase
	ws     *domain.WorkspaceContext
	out    io.Writer
	log    *zap.Logger
}

// NewPublishOrchestrator creates a publish orchestrator.
func NewPublishOrchestrator(
	github repository.GithubRepository,
	notes *usecase.PrepareReleaseNotesUseCase,
	ws *domain.WorkspaceContext,
	out io.Writer,
	log *zap.Logger,
) *PublishOrchestrator {
	return &PublishOrchestrator{github: github, notes: notes, ws: ws, out: out, log: log}
}

// Execute publishes the release for tag, retrying transient API failures.
func (o *PublishOrchestrator) Execute(ctx context.Context, tag string) error {
	if err := ValidateTagName(tag); err != nil {
		return err
	}
	exists, err := o.github.ReleaseExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to check for existing release: %w", err)
	}
	if exists {
		fmt.Fprintf(o.out, "release %s already exists, nothing to publish\n", tag)
		return nil
	}
	body, err := o.notes.Execute(ctx, tag, o.ws)
	if err != nil {
		return err
	}
	name := "Release " + strings.TrimPrefix(tag, "v")
	var url string
	backoff := retry.WithMaxRetries(PublishRetryCount, retry.NewExponential(PublishRetryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		created, createErr := o.github.CreateRelease(ctx, tag, name, body)
		if createErr != nil {
			o.log.Warn("release creation failed, retrying", zap.Error(createErr))
			return retry.RetryableError(createErr)
		}
		url = created
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish release %s: %w", tag, err)
	}
	fmt.Fprintf(o.out, "published release: %s\n", url)
	return nil
}
