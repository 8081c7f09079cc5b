package usecase

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/domain"
)

// PrepareReleaseNotesUseCase renders the body for a published release,
// listing the managed repositories the tag was applied to.

type PrepareReleaseNotesUseCase struct {
}

// Execute runs the use case.
func (uc *PrepareReleaseNotesUseCase) Execute(
	_ context.Context,
	tag string,
	ws *domain.WorkspaceContext,
) (string, error) {
	if tag == "" {
		return "", fmt.Errorf("tag cannot be empty")
	}
	if ws == nil || len(ws.Repos) == 0 {
		return "", fmt.Errorf("workspace context has no managed repositories")
	}
	data := releaseNotesData{Tag: tag, Repos: ws.Repos}
	return renderTemplate("release-notes", releaseNotesTemplate, data)
}

type releaseNotesData struct {
	Tag   string
	Repos []string
}

const releaseNotesTemplate = `## Release {{.Tag}}

Tag ` + "`{{.Tag}}`" + ` was applied to every managed repository:

{{range .Repos}}- {{.}}
{{end}}`
