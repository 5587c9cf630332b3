package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/config"
	"github.com/coglog/coglog/internal/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage coglog configuration",
	Long: `Manage coglog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (COGLOG_*)
  2. Project config (.coglog/config.yml, or .coglog/config.json)
  3. User config (~/.config/coglog/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  coglog config show

  # Create a commented project config
  coglog config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  argumentCheck(cobra.NoArgs),
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .coglog/config.yml with commented defaults",
	Args:  argumentCheck(cobra.NoArgs),
	RunE:  runConfigInit,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configView is the printed form of the configuration.
type configView struct {
	TagPrefix         string            `json:"tag_prefix" yaml:"tag_prefix" toml:"tag_prefix"`
	MonorepoSeparator string            `json:"monorepo_separator" yaml:"monorepo_separator" toml:"monorepo_separator"`
	Packages          []string          `json:"packages" yaml:"packages" toml:"packages"`
	Format            string            `json:"format" yaml:"format" toml:"format"`
	Parallelism       int               `json:"parallelism" yaml:"parallelism" toml:"parallelism"`
	CommitTypes       map[string]string `json:"commit_types" yaml:"commit_types" toml:"commit_types"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Config is shown as YAML unless a format is asked for explicitly.
	format := changelog.FormatYAML
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		if format, err = changelog.ParseFormat(name); err != nil {
			return errors.InvalidFormat(err, changelog.FormatNames()...)
		}
	}

	packages := cfg.Packages
	if packages == nil {
		packages = []string{}
	}
	view := configView{
		TagPrefix:         cfg.TagPrefix,
		MonorepoSeparator: cfg.MonorepoSeparator,
		Packages:          packages,
		Format:            cfg.Format,
		Parallelism:       cfg.Parallelism,
		CommitTypes:       cfg.CommitTypes,
	}

	if format == changelog.FormatTOML {
		return writeTOMLDocument(cmd.OutOrStdout(), view)
	}
	return writeValue(cmd.OutOrStdout(), format, "", view)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ProjectConfigPath()
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewArgumentErrorWithUsage(
			fmt.Sprintf("config file %s already exists", path),
			"coglog config init --force",
			"Pass --force to overwrite it",
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
