package config

import "github.com/coglog/coglog/internal/commit"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# coglog configuration
# Environment variables (COGLOG_*) override these values.

# Tags
tag_prefix: ""                        # Prefix before the version, e.g. "v"
monorepo_separator: "-"               # Joins package and version: api-1.2.0
packages: []                          # Monorepo package names recognized in tags

# Output
format: json                          # Record format: json | yaml | toml
parallelism: 4                        # Records encoded concurrently (1-64)

# Changelog titles per commit type; custom types may be added
commit_types:
  feat: Features
  fix: Bug Fixes
`
}

// commitTitles holds the changelog title of each built-in commit type.
var commitTitles = map[commit.Type]string{
	commit.Feature:       "Features",
	commit.BugFix:        "Bug Fixes",
	commit.Performances:  "Performance Improvements",
	commit.Revert:        "Revert",
	commit.Documentation: "Documentation",
	commit.Style:         "Style",
	commit.Refactor:      "Refactoring",
	commit.Test:          "Tests",
	commit.Build:         "Build system",
	commit.Ci:            "Continuous Integration",
	commit.Chore:         "Miscellaneous Chores",
}

// GetDefaults returns the default configuration values. Every built-in
// commit type gets a title; a type missing from commitTitles is titled by
// its token.
func GetDefaults() map[string]interface{} {
	known := commit.KnownTypes()
	commitTypes := make(map[string]interface{}, len(known))
	for _, t := range known {
		title, ok := commitTitles[t]
		if !ok {
			title = t.String()
		}
		commitTypes[t.String()] = title
	}

	return map[string]interface{}{
		// tag_prefix: Empty by default so that "1.0.0" is displayed as is.
		"tag_prefix":         "",
		"monorepo_separator": "-",
		"packages":           []string{},
		"format":             "json",
		"parallelism":        4,
		"commit_types":       commitTypes,
	}
}
