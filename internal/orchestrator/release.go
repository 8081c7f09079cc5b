package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/repository"
	"github.com/relcut/relcut/internal/service"
	"github.com/relcut/relcut/internal/usecase"
	"go.uber.org/zap"
)

// ReleaseOrchestrator drives the confirmation-gated release pipelines. Each
// phase is rendered in full, shown to the operator, and only executed after an
// explicit "y". Steps run strictly in order and the first failure aborts the
// rest of the phase; nothing is retried or rolled back, the operator repairs
// the workspace and reruns.
type ReleaseOrchestrator struct {
	runner    service.RunnerService
	journal   repository.JournalRepository
	git       repository.GitRepository
	ws        *domain.WorkspaceContext
	targets   []string
	confirmer *Confirmer
	out       io.Writer
	log       *zap.Logger
}

// NewReleaseOrchestrator creates a release orchestrator. git may be nil when
// the umbrella workspace is not available for introspection.
func NewReleaseOrchestrator(
	runner service.RunnerService,
	journal repository.JournalRepository,
	git repository.GitRepository,
	ws *domain.WorkspaceContext,
	targets []string,
	confirmer *Confirmer,
	out io.Writer,
	log *zap.Logger,
) *ReleaseOrchestrator {
	if len(targets) == 0 {
		targets = domain.DefaultTargetBranches
	}
	return &ReleaseOrchestrator{
		runner:    runner,
		journal:   journal,
		git:       git,
		ws:        ws,
		targets:   targets,
		confirmer: confirmer,
		out:       out,
		log:       log,
	}
}

// Cut builds and, on approval, executes the release-cut pipeline.
func (o *ReleaseOrchestrator) Cut(ctx context.Context, params domain.ReleaseParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	o.printParams(params)
	original, err := o.preflight(ctx, params)
	if err != nil {
		return err
	}
	pipeline, err := (&usecase.BuildCutPipelineUseCase{}).Execute(ctx, params)
	if err != nil {
		return err
	}
	_, err = o.runPhase(ctx, pipeline, params, original)
	return err
}

// MergeBack builds and, on approval, executes the merge-back pipeline.
func (o *ReleaseOrchestrator) MergeBack(ctx context.Context, params domain.ReleaseParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	o.printParams(params)
	original, err := o.preflight(ctx, params)
	if err != nil {
		return err
	}
	pipeline, err := (&usecase.BuildMergeBackPipelineUseCase{Targets: o.targets}).Execute(ctx, params)
	if err != nil {
		return err
	}
	_, err = o.runPhase(ctx, pipeline, params, original)
	return err
}

// Run executes both phases in order. The merge-back phase is only offered
// when the cut phase was approved and completed without a step failure; a
// declined or failed cut leaves the workspace for the operator to inspect.
func (o *ReleaseOrchestrator) Run(ctx context.Context, params domain.ReleaseParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	o.printParams(params)
	original, err := o.preflight(ctx, params)
	if err != nil {
		return err
	}
	cut, err := (&usecase.BuildCutPipelineUseCase{}).Execute(ctx, params)
	if err != nil {
		return err
	}
	approved, err := o.runPhase(ctx, cut, params, original)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Fprintln(o.out, "Release was not cut; nothing to merge back.")
		return nil
	}
	mergeBack, err := (&usecase.BuildMergeBackPipelineUseCase{Targets: o.targets}).Execute(ctx, params)
	if err != nil {
		return err
	}
	_, err = o.runPhase(ctx, mergeBack, params, original)
	return err
}

// runPhase renders the pipeline, asks for confirmation, and executes the
// steps one by one, journaling every state change. It reports whether the
// pipeline was approved and ran to completion.
func (o *ReleaseOrchestrator) runPhase(
	ctx context.Context,
	pipeline domain.Pipeline,
	params domain.ReleaseParams,
	originalBranch string,
) (bool, error) {
	rendered := pipeline.Render(o.runner.Name())
	fmt.Fprintf(o.out, "\nAbout to run (%s):\n  %s\n", pipeline.Name, rendered)

	record := domain.NewRunRecord(uuid.NewString(), pipeline.Name, params, rendered)
	record.OriginalBranch = originalBranch
	for _, step := range pipeline.Steps {
		record.AddStep(step.Render(o.runner.Name()))
	}

	decision, err := o.confirmer.Ask()
	if err != nil {
		return false, err
	}
	record.Decision = decision
	if decision != domain.DecisionApproved {
		record.Status = domain.RunStatusDeclined
		o.saveRecord(ctx, record)
		return false, nil
	}

	record.Status = domain.RunStatusRunning
	o.saveRecord(ctx, record)

	runCtx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	for i, step := range pipeline.Steps {
		record.MarkStepStarted(i)
		o.saveRecord(ctx, record)
		o.log.Info("running step",
			zap.String("phase", pipeline.Name),
			zap.Int("step", i+1),
			zap.String("command", step.Render(o.runner.Name())))
		if err := o.runner.Run(runCtx, step); err != nil {
			record.MarkStepFailed(i, err)
			o.saveRecord(ctx, record)
			return true, fmt.Errorf("%s pipeline aborted at step %d of %d: %w",
				pipeline.Name, i+1, len(pipeline.Steps), err)
		}
		record.MarkStepCompleted(i)
		o.saveRecord(ctx, record)
	}
	record.Status = domain.RunStatusCompleted
	o.saveRecord(ctx, record)
	fmt.Fprintf(o.out, "%s pipeline completed.\n", pipeline.Name)
	return true, nil
}

// preflight runs read-only workspace checks before a pipeline is offered:
// the push remote must exist, and an already-existing tag is worth a warning
// because the tag step will fail later. Returns the current umbrella branch
// for the journal.
func (o *ReleaseOrchestrator) preflight(ctx context.Context, params domain.ReleaseParams) (string, error) {
	if o.git == nil {
		return "", nil
	}
	exists, err := o.git.RemoteExists(ctx, params.Remote)
	if err != nil {
		o.log.Warn("could not inspect remotes", zap.Error(err))
	} else if !exists {
		return "", fmt.Errorf("remote %q not found in umbrella repository", params.Remote)
	}
	if tagged, err := o.git.TagExists(ctx, params.Tag); err == nil && tagged {
		o.log.Warn("tag already exists in umbrella repository", zap.String("tag", params.Tag))
	}
	branch, err := o.git.CurrentBranch(ctx)
	if err != nil {
		o.log.Warn("could not determine current branch", zap.Error(err))
		return "", nil
	}
	return branch, nil
}

func (o *ReleaseOrchestrator) printParams(params domain.ReleaseParams) {
	fmt.Fprintf(o.out, "Release %s: branching from %s, pushing to %s\n",
		params.Tag, params.Branch, params.Remote)
	if o.ws != nil && len(o.ws.Repos) > 0 {
		fmt.Fprintf(o.out, "Managed repositories: %d\n", len(o.ws.Repos))
	}
}

// saveRecord journals the record. The journal is observational; a write
// failure is logged but never interrupts the run.
func (o *ReleaseOrchestrator) saveRecord(ctx context.Context, record *domain.RunRecord) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Save(ctx, record); err != nil {
		o.log.Warn("failed to journal run record",
			zap.String("session_id", record.SessionID), zap.Error(err))
	}
}
