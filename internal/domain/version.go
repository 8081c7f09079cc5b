package domain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion creates a new Version from a string.
func NewVersion(s string) (*Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	return &Version{v}, nil
}

// ShortPrefix returns "major.minor-" for use as an image tag prefix,
// e.g. 1.2.0 yields "1.2-".
func (v *Version) ShortPrefix() string {
	return fmt.Sprintf("%d.%d-", v.Major(), v.Minor())
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// String returns the version string without a v prefix, matching how
// release tags are written across the managed repositories.
func (v *Version) String() string {
	return v.Version.String()
}
