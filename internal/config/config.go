package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Runner      string   `mapstructure:"runner"`
	Targets     []string `mapstructure:"targets"`
	Manifest    string   `mapstructure:"manifest"`
	JournalDir  string   `mapstructure:"journal_dir"`
	ImagesFile  string   `mapstructure:"images_file"`
	GithubToken string   `mapstructure:"github_token"`
	GithubOwner string   `mapstructure:"github_owner"`
	GithubRepo  string   `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Runner:     "git-do",
		Targets:    []string{"develop", "master"},
		Manifest:   "workspace.toml",
		JournalDir: ".relcut-journal",
		ImagesFile: "images.yaml",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Runner == "" {
		return fmt.Errorf("runner cannot be empty")
	}
	if strings.ContainsAny(c.Runner, " \t") {
		return fmt.Errorf("runner must be a single command name: %q", c.Runner)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("targets cannot be empty")
	}
	if c.Manifest == "" {
		return fmt.Errorf("manifest cannot be empty")
	}
	if strings.Contains(c.Manifest, "..") {
		return fmt.Errorf("manifest contains invalid path traversal")
	}
	if c.JournalDir == "" {
		return fmt.Errorf("journal_dir cannot be empty")
	}
	// GitHub token is optional - only validate if provided
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
	}
	return nil
}

// ValidateForGitHubOperations validates that GitHub credentials are present
// for operations that require them.
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	return c.Validate()
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".relcut")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// Configure environment variables
	v.SetEnvPrefix("RELCUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Explicitly bind environment variables
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("runner", "RELCUT_RUNNER"); err != nil {
		return nil, fmt.Errorf("failed to bind runner env: %w", err)
	}
	if err := v.BindEnv("github_token", "GITHUB_TOKEN", "RELCUT_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("github_owner", "GITHUB_OWNER", "RELCUT_GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := v.BindEnv("github_repo", "GITHUB_REPO", "RELCUT_GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	if err := v.BindEnv("journal_dir", "RELCUT_JOURNAL_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind journal_dir env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("runner", defaults.Runner)
	v.SetDefault("targets", defaults.Targets)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("journal_dir", defaults.JournalDir)
	v.SetDefault("images_file", defaults.ImagesFile)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
