package changelog

import (
	"testing"

	"github.com/coglog/coglog/internal/commit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFooterFrom(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		footer commit.Footer
		want   ChangelogFooter
	}{
		"plain": {
			footer: commit.Footer{Token: "token", Content: "content"},
			want:   ChangelogFooter{Token: "token", Content: "content"},
		},
		"breaking change": {
			footer: commit.Footer{Token: "BREAKING CHANGE", Content: "config format changed", TokenSeparator: ": "},
			want:   ChangelogFooter{Token: "BREAKING CHANGE", Content: "config format changed"},
		},
		"empty content": {
			footer: commit.Footer{Token: "Refs", TokenSeparator: " #"},
			want:   ChangelogFooter{Token: "Refs"},
		},
		"multi-line content": {
			footer: commit.Footer{Token: "Co-authored-by", Content: "a\nb"},
			want:   ChangelogFooter{Token: "Co-authored-by", Content: "a\nb"},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := FooterFrom(tt.footer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, FooterFrom(tt.footer), "projection must be deterministic")
		})
	}
}

func TestProjectFooters(t *testing.T) {
	t.Parallel()

	t.Run("keeps order", func(t *testing.T) {
		t.Parallel()
		footers := []commit.Footer{
			{Token: "Reviewed-by", Content: "Z"},
			{Token: "Refs", Content: "133"},
			{Token: "BREAKING CHANGE", Content: "removed"},
		}

		got := ProjectFooters(footers)
		require.Len(t, got, 3)
		for i, f := range footers {
			assert.Equal(t, f.Token, got[i].Token)
			assert.Equal(t, f.Content, got[i].Content)
		}
	})

	t.Run("nil input gives empty non-nil slice", func(t *testing.T) {
		t.Parallel()
		got := ProjectFooters(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
