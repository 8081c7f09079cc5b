package cmd

import (
	"fmt"
	"os"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/orchestrator"
	"github.com/relcut/relcut/internal/repository"
	"github.com/relcut/relcut/internal/service"
	"github.com/relcut/relcut/internal/usecase"
	"github.com/relcut/relcut/internal/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo  repository.FileSystemRepository
	ws      *domain.WorkspaceContext
	gitRepo repository.GitRepository
	journal repository.JournalRepository
	runner  service.RunnerService
}

// newContainer creates a new container with all the dependencies. The
// workspace manifest and umbrella repository are optional at construction
// time; commands that need them fail with a clear error when they run.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())

	var ws *domain.WorkspaceContext
	var gitRepo repository.GitRepository
	var runner service.RunnerService
	ws, err = workspace.LoadManifest(fsRepo, cfg.Manifest)
	if err != nil {
		log.Debug("workspace manifest not loaded", zap.Error(err))
		ws = nil
	} else {
		runner = service.NewRunnerService(cfg.Runner, ws.Root)
		gitRepo, err = repository.NewGitRepository(ws.Root)
		if err != nil {
			log.Debug("umbrella repository not available", zap.Error(err))
			gitRepo = nil
		}
	}

	journal := repository.NewJSONJournalRepository(fsRepo, cfg.JournalDir)

	return &container{
		cfg:     cfg,
		log:     log,
		fsRepo:  fsRepo,
		ws:      ws,
		gitRepo: gitRepo,
		journal: journal,
		runner:  runner,
	}, nil
}

// newLogger builds the diagnostic logger. Diagnostics go to stderr so the
// pipeline rendering and confirmation prompt on stdout stay clean.
func newLogger() (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if os.Getenv("RELCUT_DEBUG") != "" {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zapCfg.Build()
}

// requireWorkspace returns the workspace context or an actionable error.
func (c *container) requireWorkspace() (*domain.WorkspaceContext, error) {
	if c.ws == nil {
		return nil, fmt.Errorf("workspace manifest %s not found or invalid; run from the umbrella root",
			c.cfg.Manifest)
	}
	return c.ws, nil
}

// releaseOrchestrator wires the confirmation-gated release workflows.
func (c *container) releaseOrchestrator() (*orchestrator.ReleaseOrchestrator, error) {
	ws, err := c.requireWorkspace()
	if err != nil {
		return nil, err
	}
	confirmer := orchestrator.NewConfirmer(os.Stdin, os.Stdout)
	return orchestrator.NewReleaseOrchestrator(
		c.runner, c.journal, c.gitRepo, ws, c.cfg.Targets, confirmer, os.Stdout, c.log), nil
}

// imagesOrchestrator wires the Docker image matrix workflow.
func (c *container) imagesOrchestrator() *orchestrator.ImagesOrchestrator {
	return orchestrator.NewImagesOrchestrator(
		&usecase.GenerateImageRecipesUseCase{FS: c.fsRepo},
		&usecase.GenerateBatchFileUseCase{FS: c.fsRepo},
		service.NewDockerService(), os.Stdout, c.log)
}

// publishOrchestrator wires the GitHub release workflow. It requires GitHub
// credentials and the workspace manifest.
func (c *container) publishOrchestrator() (*orchestrator.PublishOrchestrator, error) {
	ws, err := c.requireWorkspace()
	if err != nil {
		return nil, err
	}
	if err := c.cfg.ValidateForGitHubOperations(); err != nil {
		return nil, err
	}
	ghRepo, err := repository.NewGithubRepository(c.cfg.GithubToken, c.cfg.GithubOwner, c.cfg.GithubRepo)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewPublishOrchestrator(
		ghRepo, &usecase.PrepareReleaseNotesUseCase{}, ws, os.Stdout, c.log), nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	rootCmd.AddCommand(
		newCutCmd(c),
		newMergeBackCmd(c),
		newRunCmd(c),
		newImagesCmd(c),
		newPublishCmd(c),
		newJournalCmd(c),
		newVersionCmd(),
	)
	return nil
}
