package config

import (
	"testing"

	"github.com/coglog/coglog/internal/commit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults_TitlesEveryKnownType(t *testing.T) {
	t.Parallel()

	titles, ok := GetDefaults()["commit_types"].(map[string]interface{})
	require.True(t, ok)

	known := commit.KnownTypes()
	assert.Len(t, titles, len(known))
	for _, typ := range known {
		title, ok := titles[typ.String()]
		require.True(t, ok, typ.String())
		assert.NotEqual(t, typ.String(), title, "%s has no dedicated title", typ)
	}
}
