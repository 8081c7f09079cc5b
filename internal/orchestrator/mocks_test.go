package orchestrator

import (
	"context"

	"github.com/relcut/relcut/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockRunnerService mocks the delegated runner and records the executed
// steps in order.
type MockRunnerService struct {
	mock.Mock
	Executed []domain.Step
}

func (m *MockRunnerService) Name() string {
	return "git-do"
}

func (m *MockRunnerService) Run(ctx context.Context, step domain.Step) error {
	m.Executed = append(m.Executed, step)
	args := m.Called(ctx, step)
	return args.Error(0)
}

// MockJournalRepository mocks the run journal and keeps a copy of the last
// saved record.
type MockJournalRepository struct {
	mock.Mock
	LastSaved *domain.RunRecord
}

func (m *MockJournalRepository) Save(ctx context.Context, record *domain.RunRecord) error {
	snapshot := *record
	snapshot.Steps = append([]domain.StepRecord(nil), record.Steps...)
	m.LastSaved = &snapshot
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunRecord, error) {
	args := m.Called(ctx, sessionID)
	if record := args.Get(0); record != nil {
		return record.(*domain.RunRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalRepository) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	args := m.Called(ctx)
	if record := args.Get(0); record != nil {
		return record.(*domain.RunRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGitRepository mocks read-only umbrella repository introspection.
type MockGitRepository struct {
	mock.Mock
}

func (m *MockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitRepository) RemoteExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitRepository) RemoteURL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// MockGithubRepository mocks the GitHub release API.
type MockGithubRepository struct {
	mock.Mock
}

func (m *MockGithubRepository) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *MockGithubRepository) CreateRelease(ctx context.Context, tag, name, body string) (string, error) {
	args := m.Called(ctx, tag, name, body)
	return args.String(0), args.Error(1)
}

// MockDockerService mocks image builds.
type MockDockerService struct {
	mock.Mock
}

func (m *MockDockerService) BuildCommand(recipe, image string) string {
	return "docker build --no-cache --pull -t " + image + " -f " + recipe + " ."
}

func (m *MockDockerService) Build(ctx context.Context, recipe, image string) error {
	args := m.Called(ctx, recipe, image)
	return args.Error(0)
}
