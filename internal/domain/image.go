package domain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MPIType identifies the MPI implementation baked into an image.
type MPIType string

const (
	MPITypeMPICH   MPIType = "mpich"
	MPITypeOpenMPI MPIType = "openmpi"
)

// MPISpec names an MPI implementation and, optionally, an exact version to
// build from source. A nil Version means the distribution's packaged build.
type MPISpec struct {
	Type    MPIType
	Version *Version
}

// ParseMPISpec parses "mpich", "openmpi", "mpich-X.Y.Z" or "openmpi-X.Y.Z".
func ParseMPISpec(name string) (*MPISpec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	base, ver, hasVer := strings.Cut(name, "-")
	mpiType := MPIType(base)
	if mpiType != MPITypeMPICH && mpiType != MPITypeOpenMPI {
		return nil, fmt.Errorf("unknown MPI implementation: %s", name)
	}
	if !hasVer {
		return &MPISpec{Type: mpiType}, nil
	}
	// MPI versions must be a full X.Y.Z, never a coerced partial one.
	version, err := semver.StrictNewVersion(ver)
	if err != nil {
		return nil, fmt.Errorf("invalid %s version %q: %w", mpiType, ver, err)
	}
	return &MPISpec{Type: mpiType, Version: &Version{version}}, nil
}

// String returns the spec in its canonical "type[-X.Y.Z]" form.
func (m *MPISpec) String() string {
	if m.Version == nil {
		return string(m.Type)
	}
	return fmt.Sprintf("%s-%s", m.Type, m.Version)
}

// ShortName returns the compact form used in recipe and image names,
// e.g. openmpi-3.1.6 yields "openmpi3".
func (m *MPISpec) ShortName() string {
	if m.Version == nil {
		return string(m.Type)
	}
	return fmt.Sprintf("%s%d", m.Type, m.Version.Major())
}

// ImageTarget is one cell of the image matrix: either a generic machine with
// an explicit MPI implementation, or a named machine whose base image has
// MPI preinstalled (MPI is nil in that case).
type ImageTarget struct {
	Machine string
	MPI     *MPISpec
}

// Name returns the target's suffix for recipe and image names.
func (t ImageTarget) Name() string {
	if t.Machine == "generic" && t.MPI != nil {
		return t.MPI.ShortName()
	}
	return t.Machine
}

// Validate rejects matrix cells that cannot be built: generic machines need
// an MPI spec, and OpenMPI must always carry an explicit version because no
// usable distro default exists across the supported base systems.
func (t ImageTarget) Validate() error {
	if t.Machine == "" {
		return fmt.Errorf("machine target cannot be empty")
	}
	if t.Machine != "generic" {
		return nil
	}
	if t.MPI == nil {
		return fmt.Errorf("generic machine target requires an MPI implementation")
	}
	if t.MPI.Type == MPITypeOpenMPI && t.MPI.Version == nil {
		return fmt.Errorf("openmpi version must be specified")
	}
	return nil
}
