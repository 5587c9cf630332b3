package cli

import (
	"log"
	"strings"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/errors"
	"github.com/coglog/coglog/internal/git"
	"github.com/spf13/cobra"
)

// Command group IDs for help output.
const (
	GroupRecords       = "records"
	GroupTags          = "tags"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "coglog",
	Short: "Serialize conventional commits into changelog records",
	Long: `coglog turns parsed conventional commits into changelog records.

Each commit becomes a record with a fixed field order (id, author, signature,
type, date, scope, summary, body, breaking_change, footer) written as JSON,
YAML or TOML, ready to be fed to a changelog template.

Missing author and date metadata can be read from a git repository, and
semantic-version tags can be read and displayed with the configured prefix
and monorepo package names.`,
	Example: `  # Serialize the commits of a document as JSON
  coglog record commits.yml

  # Same, as TOML, filling author and date from the current repository
  coglog record commits.yml --repo . --format toml

  # Show how a tag is read with the current configuration
  coglog tag api-v1.2.0

  # List the release tags of a repository
  coglog tags --repo .`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		enableDebugLogging(cmd, debug)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRecords, Title: "Records:"},
		&cobra.Group{ID: GroupTags, Title: "Tags:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().String("config", "", "Project config file (default: .coglog/config.yml)")
	rootCmd.PersistentFlags().StringP("format", "f", "",
		"Output format: "+strings.Join(changelog.FormatNames(), ", ")+" (default from config)")
	rootCmd.PersistentFlags().Bool("plain", false, "Plain output without colors")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug information to stderr")

	rootCmd.SetFlagErrorFunc(usageError)
}

// enableDebugLogging routes package debug output to the standard logger.
func enableDebugLogging(cmd *cobra.Command, enabled bool) {
	if !enabled {
		git.SetDebugLogger(nil)
		return
	}
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	git.SetDebugLogger(log.Printf)
	log.Printf("[cli] debug: %s started", cmd.CommandPath())
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return nil
	}
	if !isExitError(err) {
		errors.FprintAny(cmd.ErrOrStderr(), err, colorsEnabled(cmd, cmd.ErrOrStderr()))
	}
	return err
}
