package cli

import (
	"context"
	"fmt"

	"github.com/coglog/coglog/internal/errors"
	"github.com/coglog/coglog/internal/git"
	"github.com/coglog/coglog/internal/tag"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "Read a tag and print its display form",
	Long: `Read a tag string with the configured tag_prefix, monorepo_separator and
packages, and print it the way it appears in changelog output.

A tag is always written as a single string, in every output format.`,
	Example: `  coglog tag 1.0.0
  coglog tag api-v1.2.0 --format yaml`,
	Args: argumentCheck(cobra.ExactArgs(1)),
	RunE: runTag,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the release tags of a repository",
	Long: `List the tags of a git repository that read as release tags with the
current configuration, in ascending version order. Annotated tags are
resolved to the commit they point at.`,
	Example: `  # All release tags of the current repository
  coglog tags

  # Tags of one monorepo package, refreshed from the remotes first
  coglog tags --package api --fetch

  # Only the most recent release
  coglog tags --latest`,
	Args: argumentCheck(cobra.NoArgs),
	RunE: runTags,
}

func init() {
	tagCmd.GroupID = GroupTags
	rootCmd.AddCommand(tagCmd)

	tagsCmd.GroupID = GroupTags
	tagsCmd.Flags().String("repo", ".", "Git repository to read tags from")
	tagsCmd.Flags().String("package", "", "Only list tags of this monorepo package")
	tagsCmd.Flags().Bool("latest", false, "Only print the most recent tag")
	tagsCmd.Flags().Bool("fetch", false, "Fetch tags from the remotes first")
	rootCmd.AddCommand(tagsCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	t, err := tag.Parse(args[0], nil, cfg.TagOptions())
	if err != nil {
		return errors.InvalidTag(args[0], err)
	}
	return writeValue(cmd.OutOrStdout(), format, "tag", t)
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	repoPath, _ := cmd.Flags().GetString("repo")
	repo, err := git.Open(repoPath)
	if err != nil {
		return errors.NotARepository(repoPath, err)
	}

	if fetch, _ := cmd.Flags().GetBool("fetch"); fetch {
		ctx, cancel := context.WithTimeout(commandContext(cmd), git.DefaultFetchTimeout)
		defer cancel()
		if ok, _ := repo.FetchTags(ctx); !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: some remotes could not be fetched, listing local tags")
		}
	}

	all, err := repo.Tags(cfg.TagOptions())
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}

	pkg, _ := cmd.Flags().GetString("package")
	tags := filterPackage(all, pkg)

	if latest, _ := cmd.Flags().GetBool("latest"); latest {
		if len(tags) == 0 {
			return errors.WrapWithMessage(git.ErrNoTags, errors.Repository,
				"reading latest tag",
				"Create a release tag, e.g. git tag "+cfg.TagPrefix+"0.1.0",
			)
		}
		return writeValue(cmd.OutOrStdout(), format, "tag", tags[len(tags)-1])
	}
	return writeValue(cmd.OutOrStdout(), format, "tags", tags)
}

// filterPackage keeps the tags of pkg, or every tag when pkg is empty.
// The result is never nil so that it encodes as an empty list.
func filterPackage(tags []tag.Tag, pkg string) []tag.Tag {
	out := make([]tag.Tag, 0, len(tags))
	for _, t := range tags {
		if pkg == "" || (t.Package != nil && *t.Package == pkg) {
			out = append(out, t)
		}
	}
	return out
}
