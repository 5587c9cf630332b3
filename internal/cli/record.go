package cli

import (
	"fmt"
	"io"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/errors"
	"github.com/coglog/coglog/internal/git"
	"github.com/coglog/coglog/internal/input"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <commits.yml>",
	Short: "Serialize commits into changelog records",
	Long: `Read a document of parsed conventional commits and write one changelog
record per commit, in input order.

The document is YAML (or JSON) with a 'commits' list. Use '-' to read it
from stdin. Commits without author or date are completed from the git
repository given with --repo.

Records are written as a JSON array, a YAML sequence, or a TOML array of
[[commits]] tables. Use --preview for a colored overview instead.`,
	Example: `  # JSON records on stdout
  coglog record commits.yml

  # YAML records, metadata from the repository in the current directory
  coglog record commits.yml --repo . --format yaml

  # Read from stdin
  cat commits.yml | coglog record - --format toml

  # Grouped overview for the terminal
  coglog record commits.yml --preview`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.MissingInputFile()
		}
		return argumentCheck(cobra.ExactArgs(1))(cmd, args)
	},
	RunE: runRecord,
}

func init() {
	recordCmd.GroupID = GroupRecords
	recordCmd.Flags().String("repo", "", "Git repository to read missing author and date from")
	recordCmd.Flags().Bool("preview", false, "Show a grouped overview instead of records")
	recordCmd.Flags().Int("parallelism", 0, "Records encoded concurrently (default from config)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	path := args[0]
	items, err := readItems(cmd, path)
	if err != nil {
		return err
	}

	if repoPath, _ := cmd.Flags().GetString("repo"); repoPath != "" {
		repo, err := git.Open(repoPath)
		if err != nil {
			return errors.NotARepository(repoPath, err)
		}
		if err := input.Enrich(repo, items); err != nil {
			return errors.WrapWithMessage(err, errors.Repository,
				"reading commit metadata",
				"Check that every oid exists in "+repoPath,
			)
		}
	}

	if err := input.CheckComplete(items); err != nil {
		return errors.IncompleteCommits(err)
	}

	views := input.Views(items, cfg.ChangelogTitle)
	out := cmd.OutOrStdout()

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		opts := changelog.PreviewOptions{Plain: !colorsEnabled(cmd, out)}
		return changelog.WritePreview(views, out, opts)
	}

	parallelism, _ := cmd.Flags().GetInt("parallelism")
	if parallelism <= 0 {
		parallelism = cfg.Parallelism
	}
	if err := changelog.Encode(commandContext(cmd), out, format, views, parallelism); err != nil {
		return errors.EncodingFailed(err)
	}
	return nil
}

// readItems decodes the document at path, or stdin for "-".
func readItems(cmd *cobra.Command, path string) ([]input.Item, error) {
	doc, err := readDocument(cmd.InOrStdin(), path)
	if err != nil {
		return nil, errors.InvalidInput(path, err)
	}
	items, err := doc.Items()
	if err != nil {
		return nil, errors.InvalidInput(path, err)
	}
	return items, nil
}

func readDocument(stdin io.Reader, path string) (*input.Document, error) {
	if path != "-" {
		return input.Load(path)
	}
	doc, err := input.Decode(stdin)
	if err != nil {
		return nil, fmt.Errorf("decoding stdin: %w", err)
	}
	return doc, nil
}
