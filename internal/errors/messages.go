package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the coglog CLI.

// MissingInputFile creates an error for a missing commit document argument.
func MissingInputFile() *CLIError {
	return NewArgumentErrorWithUsage(
		"commit document is required",
		"coglog record <commits.yml>",
		"Pass the path of a YAML or JSON document with a 'commits' list",
		"Use '-' to read the document from stdin",
	)
}

// InvalidInput creates an error for a commit document that cannot be used.
func InvalidInput(path string, err error) *CLIError {
	return WrapWithMessage(err, Input,
		fmt.Sprintf("invalid commit document %s", path),
		"Every commit needs an 'oid' and a non-empty 'summary'",
		"Footers need a non-empty 'token'",
		"Dates use ISO 8601, e.g. 2024-03-09T14:05:07",
	)
}

// IncompleteCommits creates an error for commits lacking author or date.
func IncompleteCommits(err error) *CLIError {
	return WrapWithMessage(err, Input,
		"commit metadata is incomplete",
		"Add 'author' and 'date' to every commit in the document",
		"Or pass --repo <path> to read them from the repository",
	)
}

// NotARepository creates an error when no git repository is found at path.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, Repository,
		fmt.Sprintf("no git repository at %s", path),
		"Run the command inside a git repository",
		"Or pass the repository location with --repo",
	)
}

// InvalidTag creates an error for a tag string that cannot be read.
func InvalidTag(s string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("invalid tag %q", s),
		"Tags are [<package><separator>]<prefix><semver>, e.g. 1.0.0 or api-v1.2.0",
		"Check tag_prefix, monorepo_separator and packages in .coglog/config.yml",
	)
}

// InvalidFormat creates an error for an unsupported output format. valid
// lists the accepted format names.
func InvalidFormat(err error, valid ...string) *CLIError {
	flags := make([]string, 0, len(valid))
	for _, name := range valid {
		flags = append(flags, "--format "+name)
	}
	return Wrap(err, Argument, "Use one of: "+strings.Join(flags, ", "))
}

// ConfigLoadFailed creates an error when configuration cannot be loaded.
func ConfigLoadFailed(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"loading configuration",
		"Check .coglog/config.yml and ~/.config/coglog/config.yml",
		"Print the effective configuration with: coglog config show",
	)
}

// EncodingFailed reports an error from the record encoder. The encoder's
// message is kept as is.
func EncodingFailed(err error) *CLIError {
	return Wrap(err, Runtime)
}
