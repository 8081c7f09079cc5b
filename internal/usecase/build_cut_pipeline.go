package usecase

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/domain"
)

// BuildCutPipelineUseCase builds the pipeline that cuts a release: a new
// umbrella branch, a release branch in every sub-repository, and a push of
// that release branch with upstream tracking.

type BuildCutPipelineUseCase struct {
}

// Execute runs the use case.
func (uc *BuildCutPipelineUseCase) Execute(_ context.Context, params domain.ReleaseParams) (domain.Pipeline, error) {
	if err := params.Validate(); err != nil {
		return domain.Pipeline{}, fmt.Errorf("cannot build cut pipeline: %w", err)
	}
	release := params.ReleaseBranch()
	return domain.Pipeline{
		Name: "cut",
		Steps: []domain.Step{
			{Args: []string{"checkout", "-b", params.Branch}},
			{Args: []string{"checkout", "-b", release, params.Branch}, Fanout: true},
			{Args: []string{"push", "-u", params.Remote, release}, Fanout: true},
		},
	}, nil
}
