package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMPISpec(t *testing.T) {
	t.Run("Should parse unversioned mpich", func(t *testing.T) {
		spec, err := ParseMPISpec("mpich")
		require.NoError(t, err)
		assert.Equal(t, MPITypeMPICH, spec.Type)
		assert.Nil(t, spec.Version)
		assert.Equal(t, "mpich", spec.String())
	})
	t.Run("Should parse versioned openmpi", func(t *testing.T) {
		spec, err := ParseMPISpec("openmpi-3.1.6")
		require.NoError(t, err)
		assert.Equal(t, MPITypeOpenMPI, spec.Type)
		require.NotNil(t, spec.Version)
		assert.Equal(t, "openmpi-3.1.6", spec.String())
		assert.Equal(t, "openmpi3", spec.ShortName())
	})
	t.Run("Should normalize case and whitespace", func(t *testing.T) {
		spec, err := ParseMPISpec("  MPICH-3.3.2 ")
		require.NoError(t, err)
		assert.Equal(t, "mpich-3.3.2", spec.String())
		assert.Equal(t, "mpich3", spec.ShortName())
	})
	t.Run("Should reject unknown implementations", func(t *testing.T) {
		_, err := ParseMPISpec("lam-7.1.4")
		assert.Error(t, err)
	})
	t.Run("Should reject malformed versions", func(t *testing.T) {
		_, err := ParseMPISpec("openmpi-3.1")
		assert.Error(t, err)
	})
}

func TestImageTarget_Validate(t *testing.T) {
	t.Run("Should accept generic machine with versioned openmpi", func(t *testing.T) {
		spec, err := ParseMPISpec("openmpi-3.1.6")
		require.NoError(t, err)
		target := ImageTarget{Machine: "generic", MPI: spec}
		require.NoError(t, target.Validate())
		assert.Equal(t, "openmpi3", target.Name())
	})
	t.Run("Should reject generic machine with unversioned openmpi", func(t *testing.T) {
		spec, err := ParseMPISpec("openmpi")
		require.NoError(t, err)
		target := ImageTarget{Machine: "generic", MPI: spec}
		assert.Error(t, target.Validate())
	})
	t.Run("Should accept generic machine with unversioned mpich", func(t *testing.T) {
		spec, err := ParseMPISpec("mpich")
		require.NoError(t, err)
		target := ImageTarget{Machine: "generic", MPI: spec}
		require.NoError(t, target.Validate())
	})
	t.Run("Should reject generic machine without MPI", func(t *testing.T) {
		target := ImageTarget{Machine: "generic"}
		assert.Error(t, target.Validate())
	})
	t.Run("Should accept named machine without MPI", func(t *testing.T) {
		target := ImageTarget{Machine: "galaxy"}
		require.NoError(t, target.Validate())
		assert.Equal(t, "galaxy", target.Name())
	})
}

func TestVersion_ShortPrefix(t *testing.T) {
	t.Run("Should derive major.minor prefix", func(t *testing.T) {
		v, err := NewVersion("1.2.0")
		require.NoError(t, err)
		assert.Equal(t, "1.2-", v.ShortPrefix())
	})
}
