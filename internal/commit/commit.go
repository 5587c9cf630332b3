// Package commit holds the conventional-commit model that changelog records are
// built from. Values arrive already parsed from upstream collaborators; this
// package only carries them and checks their invariants at the input boundary.
package commit

import (
	"fmt"
	"time"
)

// Footer is one trailer entry of a conventional commit, e.g.
// "BREAKING CHANGE: the config format changed" or "Refs #42".
type Footer struct {
	Token   string
	Content string
	// TokenSeparator is ": " or " #". It is kept for round-tripping and is not
	// part of the changelog projection.
	TokenSeparator string
}

// ConventionalCommit is the parsed semantic part of a commit message.
type ConventionalCommit struct {
	Type             Type
	Scope            *string
	Summary          string
	Body             *string
	Footers          []Footer
	IsBreakingChange bool
}

// Commit is a conventional commit located in a repository.
type Commit struct {
	Oid          string
	Author       string
	Date         time.Time
	Conventional ConventionalCommit
}

// InvariantError reports a value that breaks the commit data model.
type InvariantError struct {
	Field   string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the invariants of the parsed commit.
func (c *ConventionalCommit) Validate() error {
	if c.Summary == "" {
		return &InvariantError{Field: "summary", Message: "must not be empty"}
	}
	for i, f := range c.Footers {
		if f.Token == "" {
			return &InvariantError{
				Field:   fmt.Sprintf("footers[%d].token", i),
				Message: "must not be empty",
			}
		}
	}
	return nil
}

// Validate checks the invariants of the located commit and its conventional part.
func (c *Commit) Validate() error {
	if c.Oid == "" {
		return &InvariantError{Field: "oid", Message: "must not be empty"}
	}
	return c.Conventional.Validate()
}

// NaiveUTC converts t to UTC and drops its location, so that no offset is
// carried when the date is written out.
func NaiveUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}
