package usecase

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/domain"
)

// BuildMergeBackPipelineUseCase builds the pipeline that integrates a cut
// release into the long-lived target branches, in order. Each target gets
// the same six-step sub-sequence; the merge is always --no-ff so the release
// branch stays visible in the target history.

type BuildMergeBackPipelineUseCase struct {
	// Targets are the branches to merge into, processed in listed order.
	Targets []string
}

// Execute runs the use case.
func (uc *BuildMergeBackPipelineUseCase) Execute(
	_ context.Context,
	params domain.ReleaseParams,
) (domain.Pipeline, error) {
	if err := params.Validate(); err != nil {
		return domain.Pipeline{}, fmt.Errorf("cannot build merge-back pipeline: %w", err)
	}
	targets := uc.Targets
	if len(targets) == 0 {
		targets = domain.DefaultTargetBranches
	}
	release := params.ReleaseBranch()
	pipeline := domain.Pipeline{Name: "merge-back"}
	for _, target := range targets {
		pipeline.Steps = append(pipeline.Steps,
			domain.Step{Args: []string{"checkout", target}},
			domain.Step{Args: []string{"pull"}, Fanout: true},
			domain.Step{Args: []string{"merge", "--no-ff", release}, Fanout: true},
			domain.Step{Args: []string{"tag", params.Tag}, Fanout: true},
			domain.Step{Args: []string{"branch", "-d", release}, Fanout: true},
			// merge-back always publishes to origin, regardless of the
			// remote the release branch was cut to
			domain.Step{Args: []string{"push", "origin", target}, Fanout: true},
		)
	}
	return pipeline, nil
}
