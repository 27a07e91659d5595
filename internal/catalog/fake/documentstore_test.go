// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefood/data-catalog/internal/schema"
)

func TestSearchMatchesQueryAndFilters(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore(t)
	store.Seed("recipes", "urn:recipe:pasta", map[string]any{
		"urn":         "urn:recipe:pasta",
		"title":       "Pasta al pomodoro",
		"status":      "active",
		"tags":        []string{"italian", "vegetarian"},
		"ingredients": []map[string]any{{"name": "tomato"}, {"name": "spaghetti"}},
	})
	store.Seed("recipes", "urn:recipe:salad", map[string]any{
		"urn":         "urn:recipe:salad",
		"title":       "Greek salad",
		"status":      "draft",
		"tags":        []string{"greek", "vegetarian"},
		"ingredients": []map[string]any{{"name": "feta"}},
	})

	searchFields := []string{"title^3", "ingredients.name"}

	result, err := store.Search(t.Context(), "recipes", schema.SearchSpec{Q: "tomato", Limit: 10}, searchFields)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, "urn:recipe:pasta", result.Results[0]["urn"])

	result, err = store.Search(t.Context(), "recipes", schema.SearchSpec{
		Q:      "*",
		Limit:  10,
		FQ:     []string{`status:"draft"`},
		Fields: []string{"tags"},
	}, searchFields)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "urn:recipe:salad", result.Results[0]["urn"])
	assert.Equal(t, map[string]int64{"greek": 1, "vegetarian": 1}, result.Facets["tags"])

	result, err = store.Search(t.Context(), "recipes", schema.SearchSpec{Q: "sushi", Limit: 10}, searchFields)
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, int64(0), result.Count)
}

func TestSearchProjectsFieldsAndStripsEmbeddings(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore(t)
	store.Seed("guides", "urn:guide:breakfast", map[string]any{
		"urn":            "urn:guide:breakfast",
		"title":          "Breakfast basics",
		"status":         "active",
		"embedding":      []float32{0.1, 0.2},
		"embedding_hint": "breakfast",
	})

	result, err := store.Search(t.Context(), "guides", schema.SearchSpec{Limit: 10, FL: []string{"urn", "title"}}, nil)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, map[string]any{
		"urn":   "urn:guide:breakfast",
		"title": "Breakfast basics",
	}, result.Results[0])

	result, err = store.Search(t.Context(), "guides", schema.SearchSpec{Limit: 10}, nil)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.NotContains(t, result.Results[0], "embedding")
	assert.NotContains(t, result.Results[0], "embedding_hint")
	assert.Equal(t, "active", result.Results[0]["status"])
}

func TestSemanticSearchRanksByDotProduct(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore(t)
	store.Seed("guides", "urn:guide:far", map[string]any{
		"urn":       "urn:guide:far",
		"embedding": []float32{0.1, 0},
	})
	store.Seed("guides", "urn:guide:near", map[string]any{
		"urn":       "urn:guide:near",
		"embedding": []float32{0.9, 0.1},
	})
	store.Seed("guides", "urn:guide:unembedded", map[string]any{
		"urn": "urn:guide:unembedded",
	})

	result, err := store.SemanticSearch(t.Context(), "guides", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "urn:guide:near", result.Results[0]["urn"])
	assert.Equal(t, "urn:guide:far", result.Results[1]["urn"])
	assert.NotContains(t, result.Results[0], "embedding")

	result, err = store.SemanticSearch(t.Context(), "guides", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "urn:guide:near", result.Results[0]["urn"])
}

func TestFieldValuesResolvesNestedPaths(t *testing.T) {
	t.Parallel()

	document := map[string]any{
		"title": "Pasta",
		"nutrition": map[string]any{
			"calories": 320.0,
		},
		"ingredients": []any{
			map[string]any{"name": "tomato"},
			map[string]any{"name": "basil"},
		},
	}

	assert.Equal(t, []any{"Pasta"}, fieldValues(document, "title"))
	assert.Equal(t, []any{320.0}, fieldValues(document, "nutrition.calories"))
	assert.Equal(t, []any{"tomato", "basil"}, fieldValues(document, "ingredients.name"))
	assert.Nil(t, fieldValues(document, "missing"))
	assert.Nil(t, fieldValues(document, "title.nested"))
}

func TestPageSlicesWithinBounds(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"a", "b"}, page(items, 2, 0))
	assert.Equal(t, []string{"c", "d"}, page(items, 2, 2))
	assert.Equal(t, []string{"d"}, page(items, 10, 3))
	assert.Nil(t, page(items, 2, 4))
	assert.Equal(t, items, page(items, 0, 0))
}
