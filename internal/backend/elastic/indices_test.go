// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package elastic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("embedded definitions cover every collection", func(t *testing.T) {
		t.Parallel()

		definitions, err := parseIndexDefinitions(indicesYAML)
		require.NoError(t, err)
		require.Len(t, definitions, 7)

		for _, name := range []string{
			"guides", "recipes", "policies", "articles",
			"organizations", "persons", "artifacts",
		} {
			require.Contains(t, definitions, name)
			assert.NotEmpty(t, definitions[name].Mappings, name)
		}

		assert.True(t, definitions["guides"].Semantic)
		assert.True(t, definitions["recipes"].Semantic)
		assert.True(t, definitions["policies"].Semantic)
		assert.False(t, definitions["artifacts"].Semantic)
		assert.False(t, definitions["organizations"].Semantic)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := parseIndexDefinitions([]byte("guides: [not: valid"))
		assert.ErrorIs(t, err, ErrParsing)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseIndexDefinitions([]byte(`
guides:
  semantic: true
  settings:
    number_of_shards: 1
  mappings:
    properties: {}
`))
		assert.ErrorIs(t, err, ErrParsing)
	})

	t.Run("indices without mappings are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseIndexDefinitions([]byte("guides:\n  semantic: true\n"))
		require.ErrorIs(t, err, ErrParsing)
		assert.ErrorContains(t, err, `index "guides" has no mappings`)
	})
}

func TestInjectEmbeddingFields(t *testing.T) {
	t.Parallel()

	store := &Store{dims: 768}
	mappings := map[string]any{
		"properties": map[string]any{
			"title": map[string]any{"type": "text"},
		},
	}
	store.injectEmbeddingFields(mappings)

	properties, ok := mappings["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"type":       "dense_vector",
		"dims":       768,
		"index":      true,
		"similarity": "cosine",
	}, properties["embedding"])
	assert.Equal(t, map[string]any{"type": "text"}, properties["embedding_hint"])
	assert.Contains(t, properties, "title")
}
