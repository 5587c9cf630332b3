// Package tag models release tags: a semantic version, optionally scoped to a
// monorepo package and decorated with a configured prefix. Whatever its parts,
// a Tag is always written out as one bare string, its display form.
package tag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultSeparator joins a package name and its version in monorepo tags,
// as in "api-1.2.0".
const DefaultSeparator = "-"

var (
	// ErrNotSemver is returned when the version part of a tag is not a semantic version.
	ErrNotSemver = errors.New("tag is not a semantic version")
	// ErrPrefixMismatch is returned when a tag lacks the configured prefix.
	ErrPrefixMismatch = errors.New("tag does not start with the configured prefix")
)

// Options carries the repository settings used to read and display tags.
type Options struct {
	Prefix    string
	Separator string
	Packages  []string
}

// Tag is a released version.
type Tag struct {
	Version *semver.Version
	// Oid is the tagged commit, when known.
	Oid *string
	// Package is the monorepo package the tag belongs to, if any.
	Package   *string
	Prefix    string
	Separator string
}

// Parse reads a tag string such as "1.0.0", "v1.0.0" or "api-v1.0.0".
//
// A package part is recognized only for names listed in opts.Packages. When
// several names match, as api and api-v2 do for "api-v2-1.0.0", the longest
// wins. When opts.Prefix is set the version must carry it.
func Parse(s string, oid *string, opts Options) (Tag, error) {
	sep := separatorOrDefault(opts.Separator)
	rest := s

	var pkg *string
	for _, name := range opts.Packages {
		if !strings.HasPrefix(rest, name+sep) {
			continue
		}
		if pkg == nil || len(name) > len(*pkg) {
			n := name
			pkg = &n
		}
	}
	if pkg != nil {
		rest = strings.TrimPrefix(rest, *pkg+sep)
	}

	if opts.Prefix != "" {
		if !strings.HasPrefix(rest, opts.Prefix) {
			return Tag{}, fmt.Errorf("parsing tag %q: %w", s, ErrPrefixMismatch)
		}
		rest = strings.TrimPrefix(rest, opts.Prefix)
	}

	v, err := semver.StrictNewVersion(rest)
	if err != nil {
		return Tag{}, fmt.Errorf("parsing tag %q: %w: %v", s, ErrNotSemver, err)
	}

	return Tag{
		Version:   v,
		Oid:       oid,
		Package:   pkg,
		Prefix:    opts.Prefix,
		Separator: sep,
	}, nil
}

// String returns the display form: [package separator] prefix version.
func (t Tag) String() string {
	var b strings.Builder
	if t.Package != nil {
		b.WriteString(*t.Package)
		b.WriteString(separatorOrDefault(t.Separator))
	}
	b.WriteString(t.Prefix)
	if t.Version != nil {
		b.WriteString(t.Version.String())
	}
	return b.String()
}

// MarshalText writes the tag as its display form. JSON, YAML and TOML encoders
// all pick this up, so a tag is always a plain string.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MarshalYAML keeps the tag a scalar in YAML output.
func (t Tag) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Less orders tags by version, then by package name.
func (t Tag) Less(o Tag) bool {
	if c := t.Version.Compare(o.Version); c != 0 {
		return c < 0
	}
	return pkgName(t) < pkgName(o)
}

func pkgName(t Tag) string {
	if t.Package == nil {
		return ""
	}
	return *t.Package
}

func separatorOrDefault(sep string) string {
	if sep == "" {
		return DefaultSeparator
	}
	return sep
}
