// Package input reads the already-parsed commits a changelog is generated
// from. The document is YAML (JSON is accepted as a subset):
//
//	commits:
//	  - oid: 1234567890abcdef
//	    author: Jean Michel Doudou
//	    date: 2024-03-09T14:05:07
//	    type: fix
//	    scope: parser
//	    summary: fix parser implementation
//	    body: the body
//	    breaking_change: false
//	    footers:
//	      - token: Refs
//	        content: "42"
//	    username: jmdoudou
//
// author and date may be left out and filled from the repository with Enrich.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/coglog/coglog/internal/commit"
	"github.com/coglog/coglog/internal/git"
	"github.com/coglog/coglog/internal/yamlerr"
	"gopkg.in/yaml.v3"
)

// Document is the root of an input file.
type Document struct {
	Commits []Entry `yaml:"commits"`
}

// Entry is one parsed commit as written in the input file.
type Entry struct {
	Oid            string        `yaml:"oid"`
	Author         string        `yaml:"author,omitempty"`
	Date           string        `yaml:"date,omitempty"`
	Type           string        `yaml:"type"`
	Scope          *string       `yaml:"scope,omitempty"`
	Summary        string        `yaml:"summary"`
	Body           *string       `yaml:"body,omitempty"`
	BreakingChange bool          `yaml:"breaking_change"`
	Footers        []EntryFooter `yaml:"footers,omitempty"`
	Username       *string       `yaml:"username,omitempty"`
}

// EntryFooter is a footer as written in the input file.
type EntryFooter struct {
	Token     string `yaml:"token"`
	Content   string `yaml:"content"`
	Separator string `yaml:"separator,omitempty"`
}

// Item is a decoded commit with its resolved username, if any.
type Item struct {
	Commit   commit.Commit
	Username *string
}

// EntryError reports a problem with one entry of the document.
type EntryError struct {
	Index int
	Oid   string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Oid != "" {
		return fmt.Sprintf("commit #%d (%s): %v", e.Index, e.Oid, e.Err)
	}
	return fmt.Sprintf("commit #%d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ErrIncomplete is returned when an entry still lacks repository metadata.
var ErrIncomplete = errors.New("missing author or date")

// dateLayouts are tried in order when reading entry dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input %s: %w", path, err)
	}
	return decode(bytes.NewReader(data), path)
}

// Decode reads a document from r. An empty input is an empty document.
// Malformed documents fail with a *yamlerr.Error carrying the line.
func Decode(r io.Reader) (*Document, error) {
	return decode(r, "")
}

func decode(r io.Reader, name string) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, yamlerr.Locate(name, err)
	}
	return &doc, nil
}

// Items converts every entry and checks the commit invariants.
func (d *Document) Items() ([]Item, error) {
	items := make([]Item, 0, len(d.Commits))
	for i, e := range d.Commits {
		item, err := e.item()
		if err != nil {
			return nil, &EntryError{Index: i, Oid: e.Oid, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func (e Entry) item() (Item, error) {
	c := commit.Commit{
		Oid:    e.Oid,
		Author: e.Author,
		Conventional: commit.ConventionalCommit{
			Type:             commit.ParseType(e.Type),
			Scope:            e.Scope,
			Summary:          e.Summary,
			Body:             e.Body,
			IsBreakingChange: e.BreakingChange,
		},
	}

	if e.Date != "" {
		date, err := parseDate(e.Date)
		if err != nil {
			return Item{}, err
		}
		c.Date = date
	}

	for _, f := range e.Footers {
		c.Conventional.Footers = append(c.Conventional.Footers, commit.Footer{
			Token:          f.Token,
			Content:        f.Content,
			TokenSeparator: f.Separator,
		})
	}

	if err := c.Validate(); err != nil {
		return Item{}, err
	}
	return Item{Commit: c, Username: e.Username}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return commit.NaiveUTC(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not an ISO 8601 date-time", s)
}

// MetaSource looks up repository metadata for a commit.
type MetaSource interface {
	CommitMeta(rev string) (git.CommitMeta, error)
}

// Enrich fills missing author and date fields from src. Entries that are
// already complete are not looked up.
func Enrich(src MetaSource, items []Item) error {
	for i := range items {
		c := &items[i].Commit
		if c.Author != "" && !c.Date.IsZero() {
			continue
		}
		meta, err := src.CommitMeta(c.Oid)
		if err != nil {
			return &EntryError{Index: i, Oid: c.Oid, Err: err}
		}
		if c.Author == "" {
			c.Author = meta.Author
		}
		if c.Date.IsZero() {
			c.Date = meta.Date
		}
	}
	return nil
}

// CheckComplete reports the first entry without an author or date.
func CheckComplete(items []Item) error {
	for i, item := range items {
		if item.Commit.Author == "" || item.Commit.Date.IsZero() {
			return &EntryError{Index: i, Oid: item.Commit.Oid, Err: ErrIncomplete}
		}
	}
	return nil
}

// Views builds one changelog view per item. The views borrow the items'
// commits, so items must outlive them and stay unmodified.
func Views(items []Item, title func(commit.Type) string) []changelog.ChangelogCommit {
	views := make([]changelog.ChangelogCommit, len(items))
	for i := range items {
		views[i] = changelog.ChangelogCommit{
			Commit:         &items[i].Commit,
			ChangelogTitle: title(items[i].Commit.Conventional.Type),
			AuthorUsername: items[i].Username,
		}
	}
	return views
}
