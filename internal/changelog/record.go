package changelog

import (
	"fmt"
	"time"

	"github.com/coglog/coglog/internal/commit"
)

// Record field names. They are part of the published changelog contract:
// renaming or reordering them breaks generated changelogs.
const (
	FieldID             = "id"
	FieldAuthor         = "author"
	FieldSignature      = "signature"
	FieldType           = "type"
	FieldDate           = "date"
	FieldScope          = "scope"
	FieldSummary        = "summary"
	FieldBody           = "body"
	FieldBreakingChange = "breaking_change"
	FieldFooter         = "footer"
)

// ChangelogCommit is a read-only view over a commit, with the values resolved
// for it by the changelog generator.
type ChangelogCommit struct {
	// Commit is borrowed from the caller's collection and must not be
	// modified while the view is being encoded.
	Commit *commit.Commit
	// ChangelogTitle is the human label of the commit type, e.g. "Bug Fixes".
	ChangelogTitle string
	// AuthorUsername is the resolved platform username, nil when unknown.
	AuthorUsername *string
}

// Field is one named value of a Record. A nil Value marks an unset optional.
type Field struct {
	Name  string
	Value any
}

// Record is the ordered list of fields a changelog commit is written as.
type Record []Field

// Record builds the ordered record for c.
//
// Values are one of: string, bool, time.Time, []ChangelogFooter, or nil for an
// unset optional.
func (c ChangelogCommit) Record() Record {
	conv := c.Commit.Conventional
	return Record{
		{Name: FieldID, Value: c.Commit.Oid},
		{Name: FieldAuthor, Value: optional(c.AuthorUsername)},
		{Name: FieldSignature, Value: c.Commit.Author},
		{Name: FieldType, Value: c.ChangelogTitle},
		{Name: FieldDate, Value: c.Commit.Date},
		{Name: FieldScope, Value: optional(conv.Scope)},
		{Name: FieldSummary, Value: conv.Summary},
		{Name: FieldBody, Value: optional(conv.Body)},
		{Name: FieldBreakingChange, Value: conv.IsBreakingChange},
		{Name: FieldFooter, Value: ProjectFooters(conv.Footers)},
	}
}

// Names returns the field names of r in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// optional unwraps p so that an unset value becomes an untyped nil.
func optional(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// FormatDate renders a commit date as a naive ISO 8601 date-time without any
// offset. A non-zero fraction is written in groups of three digits: .600 for
// millisecond precision, .001500 for microseconds and nine digits otherwise.
func FormatDate(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	ns := t.Nanosecond()
	switch {
	case ns == 0:
		return base
	case ns%1_000_000 == 0:
		return fmt.Sprintf("%s.%03d", base, ns/1_000_000)
	case ns%1_000 == 0:
		return fmt.Sprintf("%s.%06d", base, ns/1_000)
	default:
		return fmt.Sprintf("%s.%09d", base, ns)
	}
}
