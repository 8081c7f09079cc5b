package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relcut/relcut/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testParams() domain.ReleaseParams {
	return domain.ReleaseParams{Tag: "1.2.0", Branch: "release-prep", Remote: "origin"}
}

func newTestOrchestrator(
	answer string,
	runner *MockRunnerService,
	journal *MockJournalRepository,
	git *MockGitRepository,
) (*ReleaseOrchestrator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	confirmer := NewConfirmer(strings.NewReader(answer), out)
	ws := &domain.WorkspaceContext{Root: ".", Repos: []string{"common", "imaging"}}
	o := NewReleaseOrchestrator(runner, journal, nil, ws, nil, confirmer, out, zap.NewNop())
	if git != nil {
		o.git = git
	}
	return o, out
}

func TestReleaseOrchestrator_Cut(t *testing.T) {
	t.Run("Should render the pipeline before asking for confirmation", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, out := newTestOrchestrator("y\n", runner, journal, nil)

		err := o.Cut(context.Background(), testParams())
		require.NoError(t, err)
		rendered := "git-do checkout -b release-prep && " +
			"git-do foreach checkout -b release/1.2.0 release-prep && " +
			"git-do foreach push -u origin release/1.2.0"
		prompt := strings.Index(out.String(), "Continue (y/n)?")
		shown := strings.Index(out.String(), rendered)
		require.GreaterOrEqual(t, shown, 0)
		assert.Less(t, shown, prompt)
	})
	t.Run("Should execute every step in order on approval", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, _ := newTestOrchestrator("y\n", runner, journal, nil)

		err := o.Cut(context.Background(), testParams())
		require.NoError(t, err)
		assert.Equal(t, []domain.Step{
			{Args: []string{"checkout", "-b", "release-prep"}},
			{Args: []string{"checkout", "-b", "release/1.2.0", "release-prep"}, Fanout: true},
			{Args: []string{"push", "-u", "origin", "release/1.2.0"}, Fanout: true},
		}, runner.Executed)
		require.NotNil(t, journal.LastSaved)
		assert.Equal(t, domain.RunStatusCompleted, journal.LastSaved.Status)
		assert.Equal(t, domain.DecisionApproved, journal.LastSaved.Decision)
	})
	t.Run("Should run nothing when declined", func(t *testing.T) {
		runner := &MockRunnerService{}
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, out := newTestOrchestrator("n\n", runner, journal, nil)

		err := o.Cut(context.Background(), testParams())
		require.NoError(t, err)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "Skipped.")
		require.NotNil(t, journal.LastSaved)
		assert.Equal(t, domain.RunStatusDeclined, journal.LastSaved.Status)
	})
	t.Run("Should treat an unrecognized answer like a decline", func(t *testing.T) {
		runner := &MockRunnerService{}
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, out := newTestOrchestrator("maybe\n", runner, journal, nil)

		err := o.Cut(context.Background(), testParams())
		require.NoError(t, err)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "invalid answer")
		assert.Equal(t, domain.DecisionInvalid, journal.LastSaved.Decision)
	})
	t.Run("Should stop at the first failing step", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything,
			domain.Step{Args: []string{"checkout", "-b", "release-prep"}}).Return(nil)
		runner.On("Run", mock.Anything,
			domain.Step{Args: []string{"checkout", "-b", "release/1.2.0", "release-prep"}, Fanout: true}).
			Return(errors.New("branch already exists"))
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, _ := newTestOrchestrator("y\n", runner, journal, nil)

		err := o.Cut(context.Background(), testParams())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aborted at step 2 of 3")
		assert.Len(t, runner.Executed, 2)
		require.NotNil(t, journal.LastSaved)
		assert.Equal(t, domain.RunStatusFailed, journal.LastSaved.Status)
		assert.Equal(t, domain.StepStatusSkipped, journal.LastSaved.Steps[2].Status)
	})
	t.Run("Should fail fast on missing parameters without prompting", func(t *testing.T) {
		runner := &MockRunnerService{}
		journal := &MockJournalRepository{}
		o, out := newTestOrchestrator("y\n", runner, journal, nil)

		err := o.Cut(context.Background(), domain.ReleaseParams{Branch: "b", Remote: "r"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "-t/--tag")
		assert.NotContains(t, out.String(), "Continue (y/n)?")
	})
	t.Run("Should refuse to start when the remote is missing", func(t *testing.T) {
		runner := &MockRunnerService{}
		journal := &MockJournalRepository{}
		git := &MockGitRepository{}
		git.On("RemoteExists", mock.Anything, "origin").Return(false, nil)
		o, out := newTestOrchestrator("y\n", runner, journal, git)

		err := o.Cut(context.Background(), testParams())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `remote "origin" not found`)
		assert.NotContains(t, out.String(), "Continue (y/n)?")
	})
	t.Run("Should record the original branch from the umbrella repository", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		git := &MockGitRepository{}
		git.On("RemoteExists", mock.Anything, "origin").Return(true, nil)
		git.On("TagExists", mock.Anything, "1.2.0").Return(false, nil)
		git.On("CurrentBranch", mock.Anything).Return("develop", nil)
		o, _ := newTestOrchestrator("y\n", runner, journal, git)

		err := o.Cut(context.Background(), testParams())
		require.NoError(t, err)
		assert.Equal(t, "develop", journal.LastSaved.OriginalBranch)
	})
}

func TestReleaseOrchestrator_MergeBack(t *testing.T) {
	t.Run("Should run six steps per target branch", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, _ := newTestOrchestrator("y\n", runner, journal, nil)

		err := o.MergeBack(context.Background(), testParams())
		require.NoError(t, err)
		require.Len(t, runner.Executed, 12)
		assert.Equal(t, domain.Step{Args: []string{"checkout", "develop"}}, runner.Executed[0])
		assert.Equal(t, domain.Step{Args: []string{"push", "origin", "develop"}, Fanout: true},
			runner.Executed[5])
		assert.Equal(t, domain.Step{Args: []string{"checkout", "master"}}, runner.Executed[6])
		assert.Equal(t, domain.Step{Args: []string{"push", "origin", "master"}, Fanout: true},
			runner.Executed[11])
	})
}

func TestReleaseOrchestrator_Run(t *testing.T) {
	t.Run("Should gate the merge-back phase on an approved cut", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, _ := newTestOrchestrator("y\ny\n", runner, journal, nil)

		err := o.Run(context.Background(), testParams())
		require.NoError(t, err)
		assert.Len(t, runner.Executed, 15)
	})
	t.Run("Should skip merge-back when the cut is declined", func(t *testing.T) {
		runner := &MockRunnerService{}
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, out := newTestOrchestrator("n\n", runner, journal, nil)

		err := o.Run(context.Background(), testParams())
		require.NoError(t, err)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "Release was not cut")
	})
	t.Run("Should not offer merge-back when a cut step fails", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(errors.New("boom"))
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, out := newTestOrchestrator("y\ny\n", runner, journal, nil)

		err := o.Run(context.Background(), testParams())
		require.Error(t, err)
		assert.Len(t, runner.Executed, 1)
		assert.Equal(t, 1, strings.Count(out.String(), "Continue (y/n)?"))
	})
	t.Run("Should allow declining only the merge-back phase", func(t *testing.T) {
		runner := &MockRunnerService{}
		runner.On("Run", mock.Anything, mock.Anything).Return(nil)
		journal := &MockJournalRepository{}
		journal.On("Save", mock.Anything, mock.Anything).Return(nil)
		o, _ := newTestOrchestrator("y\nn\n", runner, journal, nil)

		err := o.Run(context.Background(), testParams())
		require.NoError(t, err)
		assert.Len(t, runner.Executed, 3)
	})
}
