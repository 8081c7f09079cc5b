package workspace

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/afero"
)

// manifest mirrors the on-disk TOML workspace manifest.
type manifest struct {
	Root  string   `toml:"root"`
	Repos []string `toml:"repos"`
}

// LoadManifest reads the workspace manifest and returns the workspace
// context for this run. The manifest is the single source of truth for
// which sub-repositories the fan-out runner manages.
func LoadManifest(fs afero.Fs, path string) (*domain.WorkspaceContext, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace manifest %s: %w", path, err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse workspace manifest %s: %w", path, err)
	}
	if m.Root == "" {
		m.Root = "."
	}
	if err := validateRepos(m.Repos); err != nil {
		return nil, fmt.Errorf("invalid workspace manifest %s: %w", path, err)
	}
	return &domain.WorkspaceContext{
		Root:  m.Root,
		Repos: m.Repos,
	}, nil
}

func validateRepos(repos []string) error {
	if len(repos) == 0 {
		return fmt.Errorf("manifest lists no managed repositories")
	}
	seen := make(map[string]struct{}, len(repos))
	for _, repo := range repos {
		name := strings.TrimSpace(repo)
		if name == "" {
			return fmt.Errorf("manifest contains an empty repository name")
		}
		if name != repo {
			return fmt.Errorf("repository name has surrounding whitespace: %q", repo)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate repository in manifest: %s", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
