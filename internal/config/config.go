// Package config provides hierarchical configuration management for coglog using koanf.
// Configuration is loaded with priority: environment variables > project config (.coglog/config.yml)
// > user config (~/.config/coglog/config.yml) > defaults. Project config may also be written
// as JSON (.coglog/config.json); the YAML file wins when both exist.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/commit"
	"github.com/coglog/coglog/internal/tag"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "COGLOG_"

// Configuration represents the coglog configuration
type Configuration struct {
	// TagPrefix is written before the version in tags, e.g. "v".
	TagPrefix string `koanf:"tag_prefix"`
	// MonorepoSeparator joins a package name and its version in tags.
	MonorepoSeparator string `koanf:"monorepo_separator" validate:"required"`
	// Packages lists the monorepo package names recognized in tags.
	// Can be set via COGLOG_PACKAGES as a comma-separated list.
	Packages []string `koanf:"packages"`

	Format      string `koanf:"format" validate:"oneof=json yaml yml toml"`
	Parallelism int    `koanf:"parallelism" validate:"min=1,max=64"`

	// CommitTypes maps commit type tokens to changelog titles. User entries
	// are merged over the built-in ones.
	CommitTypes map[string]string `koanf:"commit_types"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .coglog/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config, YAML preferred over JSON.
// Warns if both exist.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	jsonPath := ProjectJSONConfigPath()

	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n\n", jsonPath, yamlPath)
		}
	case jsonExists:
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load project config %s: %w", jsonPath, err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variables to config keys and values.
// Example: COGLOG_TAG_PREFIX=v -> tag_prefix: "v"
// COGLOG_PACKAGES is split on commas.
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "packages" {
		var pkgs []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pkgs = append(pkgs, p)
			}
		}
		return key, pkgs
	}
	return key, value
}

// TagOptions returns the settings used to read and display tags.
func (c *Configuration) TagOptions() tag.Options {
	return tag.Options{
		Prefix:    c.TagPrefix,
		Separator: c.MonorepoSeparator,
		Packages:  c.Packages,
	}
}

// ChangelogTitle returns the changelog title configured for t. Types without
// a title fall back to their token.
func (c *Configuration) ChangelogTitle(t commit.Type) string {
	if title, ok := c.CommitTypes[t.String()]; ok && title != "" {
		return title
	}
	return t.String()
}

// OutputFormat returns the configured record format.
func (c *Configuration) OutputFormat() (changelog.Format, error) {
	return changelog.ParseFormat(c.Format)
}
