package changelog

import "github.com/coglog/coglog/internal/commit"

// ChangelogFooter is the changelog-facing view of a commit footer.
type ChangelogFooter struct {
	Token   string `json:"token" yaml:"token" toml:"token"`
	Content string `json:"content" yaml:"content" toml:"content"`
}

// FooterFrom projects a commit footer. The token separator is dropped.
func FooterFrom(f commit.Footer) ChangelogFooter {
	return ChangelogFooter{Token: f.Token, Content: f.Content}
}

// ProjectFooters projects footers in their original order.
// The result is never nil so that an empty footer list is still written out.
func ProjectFooters(footers []commit.Footer) []ChangelogFooter {
	out := make([]ChangelogFooter, 0, len(footers))
	for _, f := range footers {
		out = append(out, FooterFrom(f))
	}
	return out
}
