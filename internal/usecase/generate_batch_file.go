package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/repository"
	"github.com/spf13/afero"
)

// GenerateBatchFileUseCase writes a sample SLURM batch file for running the
// final image of a matrix target under Singularity on an HPC scheduler.

type GenerateBatchFileUseCase struct {
	FS repository.FileSystemRepository
}

// Execute runs the use case and returns the written filename.
func (uc *GenerateBatchFileUseCase) Execute(
	_ context.Context,
	cfg *config.ImagesConfig,
	target domain.ImageTarget,
) (string, error) {
	if err := target.Validate(); err != nil {
		return "", fmt.Errorf("invalid image target: %w", err)
	}
	module := "mpich"
	if target.MPI != nil {
		module = string(target.MPI.Type)
		if target.MPI.Version != nil {
			module += "/" + target.MPI.Version.String()
		}
	}
	image := imageBaseName(cfg.FinalImageRepo) + "-" + target.Name() + "_latest.sif"
	data := batchFileData{
		Module: module,
		Image:  image,
	}
	content, err := renderTemplate("batch-file", batchFileTemplate, data)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("sample-%s-%s.sbatch", target.Machine, target.Name())
	if err := afero.WriteFile(uc.FS, filename, []byte(content), RecipeFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write batch file: %w", err)
	}
	return filename, nil
}

// imageBaseName strips the registry/namespace from an image repo name.
func imageBaseName(repo string) string {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}

type batchFileData struct {
	Module string
	Image  string
}

const batchFileTemplate = `#!/bin/bash -l
# This file is automatically generated; do not edit.
#SBATCH --ntasks=5
#SBATCH --time=02:00:00
#SBATCH --job-name=imaging
#SBATCH --export=NONE

module load singularity
module load {{.Module}}

mpirun -n 5 singularity exec {{.Image}} imager -c job.in > job_${SLURM_JOB_ID}.log
`
