package domain

import "fmt"

// DefaultTargetBranches are the long-lived branches a release is merged
// back into, in the order they are processed.
var DefaultTargetBranches = []string{"develop", "master"}

// ReleaseParams holds the three operator-supplied values a release run
// needs. All three are required; the struct is never mutated after Validate.

type ReleaseParams struct {
	Tag    string
	Branch string
	Remote string
}

// Validate reports the first missing parameter, naming the flag that sets it.
func (p ReleaseParams) Validate() error {
	if p.Tag == "" {
		return fmt.Errorf("missing required option -t/--tag: release tag must be set")
	}
	if p.Branch == "" {
		return fmt.Errorf("missing required option -b/--branch: source branch must be set")
	}
	if p.Remote == "" {
		return fmt.Errorf("missing required option -r/--remote: push remote must be set")
	}
	return nil
}

// ReleaseBranch returns the per-repository branch name cut for this release.
func (p ReleaseParams) ReleaseBranch() string {
	return "release/" + p.Tag
}
