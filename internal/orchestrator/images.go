package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/service"
	"github.com/relcut/relcut/internal/usecase"
	"go.uber.org/zap"
)

// ImageBuildOptions selects what the images workflow actually does. With no
// build flag set it only writes recipes and batch files and prints the docker
// commands it would have run.
type ImageBuildOptions struct {
	BuildBase   bool
	BuildFinal  bool
	ShowTargets bool
}

// ImagesOrchestrator drives the Docker image matrix: it expands the
// configured machines and MPI implementations into targets, generates a base
// and final recipe plus a sample batch file per target, and optionally builds
// the images.
type ImagesOrchestrator struct {
	recipes *usecase.GenerateImageRecipesUseCase
	batch   *usecase.GenerateBatchFileUseCase
	docker  service.DockerService
	out     io.Writer
	log     *zap.Logger
}

// NewImagesOrchestrator creates an images orchestrator.
func NewImagesOrchestrator(
	recipes *usecase.GenerateImageRecipesUseCase,
	batch *usecase.GenerateBatchFileUseCase,
	docker service.DockerService,
	out io.Writer,
	log *zap.Logger,
) *ImagesOrchestrator {
	return &ImagesOrchestrator{recipes: recipes, batch: batch, docker: docker, out: out, log: log}
}

// Execute runs the images workflow over every matrix target.
func (o *ImagesOrchestrator) Execute(
	ctx context.Context,
	cfg *config.ImagesConfig,
	opts ImageBuildOptions,
) error {
	targets, err := ExpandTargets(cfg)
	if err != nil {
		return err
	}
	if opts.ShowTargets {
		for _, target := range targets {
			fmt.Fprintln(o.out, target.Name())
		}
		return nil
	}
	for _, target := range targets {
		if err := o.processTarget(ctx, cfg, target, opts); err != nil {
			return err
		}
	}
	return nil
}

func (o *ImagesOrchestrator) processTarget(
	ctx context.Context,
	cfg *config.ImagesConfig,
	target domain.ImageTarget,
	opts ImageBuildOptions,
) error {
	o.log.Info("generating recipes", zap.String("target", target.Name()))
	base, final, err := o.recipes.Execute(ctx, cfg, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.out, "wrote %s and %s\n", base.RecipeFile, final.RecipeFile)
	if err := o.buildOrEcho(ctx, base, opts.BuildBase); err != nil {
		return err
	}
	if err := o.buildOrEcho(ctx, final, opts.BuildFinal); err != nil {
		return err
	}
	batchFile, err := o.batch.Execute(ctx, cfg, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.out, "wrote %s\n", batchFile)
	return nil
}

func (o *ImagesOrchestrator) buildOrEcho(
	ctx context.Context,
	recipe usecase.ImageRecipe,
	build bool,
) error {
	if !build {
		fmt.Fprintf(o.out, "to build %s run:\n  %s\n", recipe.Image,
			o.docker.BuildCommand(recipe.RecipeFile, recipe.Image))
		return nil
	}
	o.log.Info("building image", zap.String("image", recipe.Image))
	if err := o.docker.Build(ctx, recipe.RecipeFile, recipe.Image); err != nil {
		return fmt.Errorf("failed to build %s: %w", recipe.Image, err)
	}
	fmt.Fprintf(o.out, "built %s\n", recipe.Image)
	return nil
}

// ExpandTargets turns the configured machine and MPI lists into concrete
// matrix targets: one per MPI implementation for generic machines, one per
// named machine.
func ExpandTargets(cfg *config.ImagesConfig) ([]domain.ImageTarget, error) {
	var targets []domain.ImageTarget
	for _, machine := range cfg.Machines {
		if machine != "generic" {
			targets = append(targets, domain.ImageTarget{Machine: machine})
			continue
		}
		for _, name := range cfg.MPI {
			mpi, err := domain.ParseMPISpec(name)
			if err != nil {
				return nil, err
			}
			targets = append(targets, domain.ImageTarget{Machine: machine, MPI: mpi})
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("image matrix has no targets")
	}
	return targets, nil
}
