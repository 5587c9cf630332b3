package changelog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coglog/coglog/internal/commit"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var wantOrder = []string{
	"id", "author", "signature", "type", "date",
	"scope", "summary", "body", "breaking_change", "footer",
}

func strPtr(s string) *string { return &s }

// bugFixCommit is the "fix parser implementation" commit used across tests.
func bugFixCommit() ChangelogCommit {
	return ChangelogCommit{
		ChangelogTitle: "BugFix",
		AuthorUsername: strPtr("Jm Doudou"),
		Commit: &commit.Commit{
			Oid:    "1234567890",
			Author: "Jean Michel Doudou",
			Date:   time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
			Conventional: commit.ConventionalCommit{
				Type:    commit.BugFix,
				Scope:   strPtr("parser"),
				Summary: "fix parser implementation",
				Body:    strPtr("the body"),
				Footers: []commit.Footer{{Token: "token", Content: "content"}},
			},
		},
	}
}

// bareCommit has every optional field unset and no footers.
func bareCommit() ChangelogCommit {
	return ChangelogCommit{
		ChangelogTitle: "Features",
		Commit: &commit.Commit{
			Oid:    "abcdef",
			Author: "Paul",
			Date:   time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC),
			Conventional: commit.ConventionalCommit{
				Type:    commit.Feature,
				Summary: "add thing",
			},
		},
	}
}

// jsonKeys returns the top-level keys of a JSON object in document order.
func jsonKeys(t *testing.T, data []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func TestRecord_FieldOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, wantOrder, bugFixCommit().Record().Names())
	assert.Equal(t, wantOrder, bareCommit().Record().Names())
}

func TestRecord_UnsetOptionalsAreNil(t *testing.T) {
	t.Parallel()

	rec := bareCommit().Record()
	for _, f := range rec {
		switch f.Name {
		case FieldAuthor, FieldScope, FieldBody:
			assert.Nil(t, f.Value, f.Name)
		default:
			assert.NotNil(t, f.Value, f.Name)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("bug fix scenario", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(bugFixCommit())
		require.NoError(t, err)
		assert.Equal(t, wantOrder, jsonKeys(t, data))

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "1234567890", got["id"])
		assert.Equal(t, "Jm Doudou", got["author"])
		assert.Equal(t, "Jean Michel Doudou", got["signature"])
		assert.Equal(t, "BugFix", got["type"])
		assert.Equal(t, "2024-03-09T14:05:07", got["date"])
		assert.Equal(t, "parser", got["scope"])
		assert.Equal(t, "fix parser implementation", got["summary"])
		assert.Equal(t, "the body", got["body"])
		assert.Equal(t, false, got["breaking_change"])
		assert.Equal(t, []any{map[string]any{"token": "token", "content": "content"}}, got["footer"])
	})

	t.Run("unset optionals are null", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(bareCommit())
		require.NoError(t, err)
		assert.Equal(t, wantOrder, jsonKeys(t, data))

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		for _, key := range []string{"author", "scope", "body"} {
			v, ok := got[key]
			assert.True(t, ok, "%s must be present", key)
			assert.Nil(t, v, key)
		}
		assert.Equal(t, "2024-01-02T03:04:05.600", got["date"])
		assert.Equal(t, []any{}, got["footer"])
	})

	t.Run("breaking change true", func(t *testing.T) {
		t.Parallel()
		c := bareCommit()
		c.Commit.Conventional.IsBreakingChange = true
		data, err := json.Marshal(c)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"breaking_change":true`)
	})
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit    ChangelogCommit
		wantNulls []string
	}{
		"all fields set": {commit: bugFixCommit()},
		"optionals unset": {
			commit:    bareCommit(),
			wantNulls: []string{"author", "scope", "body"},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data, err := tt.commit.Marshal(FormatYAML)
			require.NoError(t, err)

			var doc yaml.Node
			require.NoError(t, yaml.Unmarshal(data, &doc))
			mapping := doc.Content[0]
			require.Equal(t, yaml.MappingNode, mapping.Kind)

			var keys []string
			values := map[string]*yaml.Node{}
			for i := 0; i < len(mapping.Content); i += 2 {
				keys = append(keys, mapping.Content[i].Value)
				values[mapping.Content[i].Value] = mapping.Content[i+1]
			}
			assert.Equal(t, wantOrder, keys)

			for _, key := range tt.wantNulls {
				assert.Equal(t, "!!null", values[key].ShortTag(), key)
			}
			assert.Equal(t, "false", values["breaking_change"].Value)
			assert.Equal(t, yaml.SequenceNode, values["footer"].Kind)
		})
	}
}

func TestMarshalYAML_Values(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(bugFixCommit())
	require.NoError(t, err)

	var got struct {
		ID             string            `yaml:"id"`
		Author         *string           `yaml:"author"`
		Date           string            `yaml:"date"`
		Type           string            `yaml:"type"`
		BreakingChange bool              `yaml:"breaking_change"`
		Footer         []ChangelogFooter `yaml:"footer"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "1234567890", got.ID)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Jm Doudou", *got.Author)
	assert.Equal(t, "2024-03-09T14:05:07", got.Date)
	assert.Equal(t, "BugFix", got.Type)
	assert.False(t, got.BreakingChange)
	assert.Equal(t, []ChangelogFooter{{Token: "token", Content: "content"}}, got.Footer)
}

func TestMarshalTOML(t *testing.T) {
	t.Parallel()

	t.Run("bug fix scenario", func(t *testing.T) {
		t.Parallel()
		data, err := bugFixCommit().MarshalTOML()
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, toml.Unmarshal(data, &got))
		assert.Equal(t, "1234567890", got["id"])
		assert.Equal(t, "Jm Doudou", got["author"])
		assert.Equal(t, "BugFix", got["type"])
		assert.Equal(t, "parser", got["scope"])
		assert.Equal(t, "fix parser implementation", got["summary"])
		assert.Equal(t, false, got["breaking_change"])
		footers, ok := got["footer"].([]any)
		require.True(t, ok)
		require.Len(t, footers, 1)
		assert.Equal(t, map[string]any{"token": "token", "content": "content"}, footers[0])

		date, ok := got["date"].(string)
		require.True(t, ok, "date must be a string, got %T", got["date"])
		assert.Equal(t, "2024-03-09T14:05:07", date)

		assertInOrder(t, string(data), "id =", "author =", "signature =", "type =", "date =",
			"scope =", "summary =", "body =", "breaking_change =", "[[footer]]")
	})

	t.Run("unset optionals are omitted", func(t *testing.T) {
		t.Parallel()
		data, err := bareCommit().MarshalTOML()
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, toml.Unmarshal(data, &got))
		for _, key := range []string{"author", "scope", "body"} {
			_, ok := got[key]
			assert.False(t, ok, key)
		}
		assert.Equal(t, false, got["breaking_change"])
		assert.Equal(t, "2024-01-02T03:04:05.600", got["date"])
		footers, ok := got["footer"].([]any)
		require.True(t, ok, "footer must be an array, got %T", got["footer"])
		assert.Empty(t, footers)
	})
}

func assertInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	last := -1
	for _, p := range parts {
		idx := strings.Index(s, p)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", p, s)
		assert.Greater(t, idx, last, "%q out of order in:\n%s", p, s)
		last = idx
	}
}

func TestMarshal_Idempotent(t *testing.T) {
	t.Parallel()

	c := bugFixCommit()
	for _, format := range ValidFormats() {
		first, err := c.Marshal(format)
		require.NoError(t, err)
		second, err := c.Marshal(format)
		require.NoError(t, err)
		assert.Equal(t, first, second, string(format))
	}
}

func TestMarshal_DoesNotModifyCommit(t *testing.T) {
	t.Parallel()

	c := bugFixCommit()
	before := *c.Commit
	for _, format := range ValidFormats() {
		_, err := c.Marshal(format)
		require.NoError(t, err)
	}
	assert.Equal(t, before, *c.Commit)
}

func TestMarshal_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := bugFixCommit().Marshal(Format("xml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    Format
		wantErr bool
	}{
		"json":        {in: "json", want: FormatJSON},
		"yaml":        {in: "yaml", want: FormatYAML},
		"yml alias":   {in: "yml", want: FormatYAML},
		"toml upper":  {in: " TOML ", want: FormatTOML},
		"unsupported": {in: "xml", wantErr: true},
		"empty":       {in: "", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_ErrorListsFormats(t *testing.T) {
	t.Parallel()

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Equal(t, `unknown format "xml" (valid: json, yaml, toml)`, err.Error())
	assert.Equal(t, []string{"json", "yaml", "toml"}, FormatNames())
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   time.Time
		want string
	}{
		"whole seconds": {in: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), want: "2023-12-31T23:59:59"},
		"millis":        {in: time.Date(2023, 1, 1, 0, 0, 0, 120000000, time.UTC), want: "2023-01-01T00:00:00.120"},
		"micros":        {in: time.Date(2023, 1, 1, 0, 0, 0, 1500000, time.UTC), want: "2023-01-01T00:00:00.001500"},
		"nanos":         {in: time.Date(2023, 1, 1, 0, 0, 0, 123456789, time.UTC), want: "2023-01-01T00:00:00.123456789"},
		"one nano":      {in: time.Date(2023, 1, 1, 0, 0, 0, 1, time.UTC), want: "2023-01-01T00:00:00.000000001"},
		"offset dropped": {
			in:   time.Date(2023, 1, 1, 2, 0, 0, 0, time.FixedZone("X", 2*60*60)),
			want: "2023-01-01T00:00:00",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}
