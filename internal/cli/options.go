package cli

import (
	"context"
	"io"
	"os"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/config"
	"github.com/coglog/coglog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loadConfig loads the configuration, honoring --config.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, errors.ConfigLoadFailed(err)
	}
	return cfg, nil
}

// outputFormat returns --format when given, else the configured format.
func outputFormat(cmd *cobra.Command, cfg *config.Configuration) (changelog.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = cfg.Format
	}
	format, err := changelog.ParseFormat(name)
	if err != nil {
		return "", errors.InvalidFormat(err, changelog.FormatNames()...)
	}
	return format, nil
}

// colorsEnabled reports whether w should receive colored output.
func colorsEnabled(cmd *cobra.Command, w io.Writer) bool {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return false
	}
	return !color.NoColor && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// argumentCheck reports failures of check as argument errors.
func argumentCheck(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}

func usageError(cmd *cobra.Command, err error) error {
	return errors.Wrap(err, errors.Argument, "Run '"+cmd.CommandPath()+" --help' for usage")
}
