package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/domain"
	"github.com/relcut/relcut/internal/repository"
	"github.com/spf13/afero"
)

// RecipeFilePermissions is the mode for generated Dockerfiles.
const RecipeFilePermissions = 0644

// ImageRecipe pairs a written Dockerfile with the image it builds.
type ImageRecipe struct {
	RecipeFile string
	Image      string
}

// GenerateImageRecipesUseCase writes the base and final Dockerfiles for one
// matrix target. The base image holds the seldom-changing toolchain and
// scientific libraries; the final image checks out the umbrella workspace
// through the fan-out runner and builds it.

type GenerateImageRecipesUseCase struct {
	FS repository.FileSystemRepository
}

// Execute runs the use case.
func (uc *GenerateImageRecipesUseCase) Execute(
	_ context.Context,
	cfg *config.ImagesConfig,
	target domain.ImageTarget,
) (ImageRecipe, ImageRecipe, error) {
	if err := target.Validate(); err != nil {
		return ImageRecipe{}, ImageRecipe{}, fmt.Errorf("invalid image target: %w", err)
	}
	base, err := uc.writeBaseRecipe(cfg, target)
	if err != nil {
		return ImageRecipe{}, ImageRecipe{}, err
	}
	final, err := uc.writeFinalRecipe(cfg, target, base.Image)
	if err != nil {
		return ImageRecipe{}, ImageRecipe{}, err
	}
	return base, final, nil
}

func (uc *GenerateImageRecipesUseCase) writeBaseRecipe(
	cfg *config.ImagesConfig,
	target domain.ImageTarget,
) (ImageRecipe, error) {
	from := "ubuntu:bionic"
	mpiBuild := ""
	if target.Machine == "generic" {
		var err error
		mpiBuild, err = renderMPIBuild(target.MPI)
		if err != nil {
			return ImageRecipe{}, err
		}
	} else {
		// named machines ship MPI in their vendor base image
		from = cfg.MachineBases[target.Machine]
	}
	data := baseRecipeData{
		From:            from,
		AptPackages:     cfg.AptPackages,
		CMakeVersion:    cfg.CMakeVersion,
		CasacoreVersion: cfg.CasacoreVersion,
		MPIBuild:        mpiBuild,
	}
	content, err := renderTemplate("base-recipe", baseRecipeTemplate, data)
	if err != nil {
		return ImageRecipe{}, err
	}
	recipe := ImageRecipe{
		RecipeFile: "Dockerfile-base-" + target.Name(),
		Image:      cfg.BaseImageRepo + ":" + target.Name(),
	}
	if err := afero.WriteFile(uc.FS, recipe.RecipeFile, []byte(content), RecipeFilePermissions); err != nil {
		return ImageRecipe{}, fmt.Errorf("failed to write base recipe: %w", err)
	}
	return recipe, nil
}

func (uc *GenerateImageRecipesUseCase) writeFinalRecipe(
	cfg *config.ImagesConfig,
	target domain.ImageTarget,
	baseImage string,
) (ImageRecipe, error) {
	data := finalRecipeData{
		BaseImage:   baseImage,
		UmbrellaURL: cfg.UmbrellaURL,
		Branch:      cfg.Branch,
		Runner:      cfg.Runner,
	}
	content, err := renderTemplate("final-recipe", finalRecipeTemplate, data)
	if err != nil {
		return ImageRecipe{}, err
	}
	recipe := ImageRecipe{
		RecipeFile: "Dockerfile-final-" + target.Name(),
		Image:      cfg.FinalImageRepo + ":" + FinalTagPrefix(cfg.Branch) + target.Name(),
	}
	if err := afero.WriteFile(uc.FS, recipe.RecipeFile, []byte(content), RecipeFilePermissions); err != nil {
		return ImageRecipe{}, fmt.Errorf("failed to write final recipe: %w", err)
	}
	return recipe, nil
}

// FinalTagPrefix derives the image tag prefix from the branch being built:
// release branches yield "major.minor-", master yields no prefix, and
// everything else is a dev build.
func FinalTagPrefix(branch string) string {
	if ver, ok := strings.CutPrefix(branch, "release/"); ok {
		if v, err := domain.NewVersion(ver); err == nil {
			return v.ShortPrefix()
		}
		return "dev-"
	}
	if branch == "master" {
		return ""
	}
	return "dev-"
}

// renderMPIBuild returns the Dockerfile fragment that installs or builds the
// requested MPI implementation.
func renderMPIBuild(mpi *domain.MPISpec) (string, error) {
	switch {
	case mpi.Type == domain.MPITypeMPICH && mpi.Version == nil:
		return "RUN apt-get update \\\n" +
			"    && apt-get install -y libmpich-dev \\\n" +
			"    && rm -rf /var/lib/apt\n", nil
	case mpi.Type == domain.MPITypeMPICH:
		data := mpiBuildData{
			Archive:     fmt.Sprintf("mpich-%s", mpi.Version),
			DownloadURL: fmt.Sprintf("https://www.mpich.org/static/downloads/%s", mpi.Version),
			Configure:   "./configure --prefix=/usr/local",
		}
		return renderTemplate("mpi-build", mpiBuildTemplate, data)
	case mpi.Type == domain.MPITypeOpenMPI && mpi.Version != nil:
		data := mpiBuildData{
			Archive: fmt.Sprintf("openmpi-%s", mpi.Version),
			DownloadURL: fmt.Sprintf("https://download.open-mpi.org/release/open-mpi/v%d.%d",
				mpi.Version.Major(), mpi.Version.Minor()),
			// C++ bindings stay enabled; parts of the stack still use them
			Configure: "./configure --enable-mpi-cxx",
		}
		return renderTemplate("mpi-build", mpiBuildTemplate, data)
	default:
		return "", fmt.Errorf("unsupported MPI spec: %s", mpi)
	}
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}

type baseRecipeData struct {
	From            string
	AptPackages     []string
	CMakeVersion    string
	CasacoreVersion string
	MPIBuild        string
}

type finalRecipeData struct {
	BaseImage   string
	UmbrellaURL string
	Branch      string
	Runner      string
}

type mpiBuildData struct {
	Archive     string
	DownloadURL string
	Configure   string
}

const baseRecipeTemplate = `# This file is automatically generated; do not edit.
FROM {{.From}} AS buildenv
ENV DEBIAN_FRONTEND=noninteractive
RUN apt-get update \
    && apt-get upgrade -y \
    && apt-get autoremove -y \
    && apt-get install -y{{range .AptPackages}} \
        {{.}}{{end}} \
    && rm -rf /var/lib/apt
# Build cmake {{.CMakeVersion}}
WORKDIR /usr/local/share/cmake
RUN wget https://github.com/Kitware/CMake/releases/download/v{{.CMakeVersion}}/cmake-{{.CMakeVersion}}.tar.gz \
    && tar -zxf cmake-{{.CMakeVersion}}.tar.gz \
    && rm cmake-{{.CMakeVersion}}.tar.gz
WORKDIR /usr/local/share/cmake/cmake-{{.CMakeVersion}}
RUN ./bootstrap --system-curl \
    && make \
    && make install
{{.MPIBuild}}# Build casacore {{.CasacoreVersion}} with the measures data
WORKDIR /usr/local/share/casacore/data
RUN wget ftp://ftp.astron.nl/outgoing/Measures/WSRT_Measures.ztar \
    && mv WSRT_Measures.ztar WSRT_Measures.tar.gz \
    && tar -zxf WSRT_Measures.tar.gz \
    && rm WSRT_Measures.tar.gz
WORKDIR /usr/local/share/casacore
RUN wget https://github.com/casacore/casacore/archive/v{{.CasacoreVersion}}.tar.gz \
    && tar -xzf v{{.CasacoreVersion}}.tar.gz \
    && rm v{{.CasacoreVersion}}.tar.gz
WORKDIR /usr/local/share/casacore/casacore-{{.CasacoreVersion}}/build
RUN cmake -DCMAKE_CXX_COMPILER=mpicxx -DUSE_FFTW3=ON -DDATA_DIR=/usr/local/share/casacore/data \
    -DUSE_OPENMP=ON -DUSE_HDF5=ON -DBUILD_PYTHON=ON -DUSE_THREADS=ON -DCMAKE_BUILD_TYPE=Release .. \
    && make -j"$(nproc)" \
    && make install \
    && apt-get clean
`

const mpiBuildTemplate = `# Build {{.Archive}}
WORKDIR /home
RUN wget {{.DownloadURL}}/{{.Archive}}.tar.gz \
    && tar -zxf {{.Archive}}.tar.gz \
    && rm {{.Archive}}.tar.gz
WORKDIR /home/{{.Archive}}
RUN {{.Configure}} \
    && make -j"$(nproc)" \
    && make install
ENV PATH=/usr/local/bin:$PATH
ENV LD_LIBRARY_PATH=/usr/local/lib:$LD_LIBRARY_PATH
ENV MPI_COMPILE_FLAGS="-I/usr/local/include -pthread"
`

const finalRecipeTemplate = `# This file is automatically generated; do not edit.
FROM {{.BaseImage}} AS buildenv
WORKDIR /home
RUN git clone {{.UmbrellaURL}} workspace
WORKDIR /home/workspace
RUN git checkout {{.Branch}}
RUN ./{{.Runner}} clone
RUN ./{{.Runner}} checkout {{.Branch}}
WORKDIR /home/workspace/build
RUN cmake -DCMAKE_CXX_COMPILER=mpicxx -DCMAKE_CXX_FLAGS="-I/usr/local/include -pthread" \
    -DCMAKE_BUILD_TYPE=Release -DENABLE_OPENMP=YES \
    -DBUILD_ANALYSIS=OFF -DBUILD_PIPELINE=OFF -DBUILD_COMPONENTS=OFF -DBUILD_SERVICES=OFF .. \
    && make -j"$(nproc)" \
    && make install
`
