package orchestrator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPublishOrchestrator(github *MockGithubRepository) (*PublishOrchestrator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	ws := &domain.WorkspaceContext{Root: ".", Repos: []string{"common", "imaging"}}
	o := NewPublishOrchestrator(github, &usecase.PrepareReleaseNotesUseCase{}, ws, out, zap.NewNop())
	return o, out
}

func TestPublishOrchestrator_Execute(t *testing.T) {
	t.Run("Should publish a release with notes listing the repositories", func(t *testing.T) {
		github := &MockGithubRepository{}
		github.On("ReleaseExists", mock.Anything, "1.2.0").Return(false, nil)
		github.On("CreateRelease", mock.Anything, "1.2.0", "Release 1.2.0",
			mock.MatchedBy(func(body string) bool {
				return strings.Contains(body, "- common") && strings.Contains(body, "- imaging")
			})).Return("https://github.com/example/umbrella/releases/tag/1.2.0", nil)
		o, out := newPublishOrchestrator(github)

		err := o.Execute(context.Background(), "1.2.0")
		require.NoError(t, err)
		assert.Contains(t, out.String(),
			"published release: https://github.com/example/umbrella/releases/tag/1.2.0")
	})
	t.Run("Should do nothing when the release already exists", func(t *testing.T) {
		github := &MockGithubRepository{}
		github.On("ReleaseExists", mock.Anything, "1.2.0").Return(true, nil)
		o, out := newPublishOrchestrator(github)

		err := o.Execute(context.Background(), "1.2.0")
		require.NoError(t, err)
		github.AssertNotCalled(t, "CreateRelease",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "already exists")
	})
	t.Run("Should retry transient API failures", func(t *testing.T) {
		prevDelay := PublishRetryDelay
		PublishRetryDelay = time.Millisecond
		defer func() { PublishRetryDelay = prevDelay }()

		github := &MockGithubRepository{}
		github.On("ReleaseExists", mock.Anything, "1.2.0").Return(false, nil)
		github.On("CreateRelease", mock.Anything, "1.2.0", mock.Anything, mock.Anything).
			Return("", assert.AnError).Once()
		github.On("CreateRelease", mock.Anything, "1.2.0", mock.Anything, mock.Anything).
			Return("https://github.com/example/umbrella/releases/tag/1.2.0", nil).Once()
		o, _ := newPublishOrchestrator(github)

		err := o.Execute(context.Background(), "1.2.0")
		require.NoError(t, err)
		github.AssertNumberOfCalls(t, "CreateRelease", 2)
	})
	t.Run("Should reject malformed tags before touching the API", func(t *testing.T) {
		github := &MockGithubRepository{}
		o, _ := newPublishOrchestrator(github)

		err := o.Execute(context.Background(), "latest")
		require.Error(t, err)
		github.AssertNotCalled(t, "ReleaseExists", mock.Anything, mock.Anything)
	})
}
