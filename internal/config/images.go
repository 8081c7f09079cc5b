package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ImagesConfig describes the Docker image matrix: which machine targets to
// build for, which MPI implementations on generic machines, and the shared
// build settings baked into the generated recipes.
type ImagesConfig struct {
	Machines        []string          `yaml:"machines"`
	MPI             []string          `yaml:"mpi"`
	Branch          string            `yaml:"branch"`
	UmbrellaURL     string            `yaml:"umbrella_url"`
	Runner          string            `yaml:"runner"`
	BaseImageRepo   string            `yaml:"base_image_repo"`
	FinalImageRepo  string            `yaml:"final_image_repo"`
	CasacoreVersion string            `yaml:"casacore_version"`
	CMakeVersion    string            `yaml:"cmake_version"`
	AptPackages     []string          `yaml:"apt_packages"`
	MachineBases    map[string]string `yaml:"machine_bases"`
}

// DefaultImagesConfig returns an ImagesConfig with default values.
func DefaultImagesConfig() *ImagesConfig {
	return &ImagesConfig{
		Machines:        []string{"generic"},
		MPI:             []string{"openmpi-3.1.6"},
		Branch:          "develop",
		Runner:          "git-do",
		CasacoreVersion: "3.3.0",
		CMakeVersion:    "3.18.4",
	}
}

// Validate validates the image matrix configuration.
func (c *ImagesConfig) Validate() error {
	if len(c.Machines) == 0 {
		return fmt.Errorf("machines cannot be empty")
	}
	if c.Branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if c.UmbrellaURL == "" {
		return fmt.Errorf("umbrella_url cannot be empty")
	}
	if c.Runner == "" {
		return fmt.Errorf("runner cannot be empty")
	}
	if c.BaseImageRepo == "" {
		return fmt.Errorf("base_image_repo cannot be empty")
	}
	if c.FinalImageRepo == "" {
		return fmt.Errorf("final_image_repo cannot be empty")
	}
	for _, machine := range c.Machines {
		if machine == "generic" {
			if len(c.MPI) == 0 {
				return fmt.Errorf("mpi cannot be empty when building for generic machines")
			}
			continue
		}
		if _, ok := c.MachineBases[machine]; !ok {
			return fmt.Errorf("no base image configured for machine %q", machine)
		}
	}
	return nil
}

// LoadImagesConfig reads and validates the image matrix configuration file.
func LoadImagesConfig(fs afero.Fs, path string) (*ImagesConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read images config %s: %w", path, err)
	}
	cfg := DefaultImagesConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse images config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("images config validation failed: %w", err)
	}
	return cfg, nil
}
