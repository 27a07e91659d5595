// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/catalog/fake"
	"github.com/wisefood/data-catalog/internal/schema"
)

const testUUID = "0e7c982c-61a1-43cc-b6f4-7e528f4bbb62"

type backends struct {
	store    *fake.DocumentStore
	cache    *fake.Cache
	objects  *fake.ObjectStore
	graph    *fake.LineageStore
	embedder *fake.Embedder
}

func newTestService(t *testing.T) (*catalog.Service, *backends) {
	t.Helper()

	b := &backends{
		store:    fake.NewDocumentStore(t),
		cache:    fake.NewCache(t),
		objects:  fake.NewObjectStore(t),
		graph:    fake.NewLineageStore(t),
		embedder: fake.NewEmbedder(t, []float32{1, 0, 0}),
	}
	service, err := catalog.NewService(catalog.Config{
		Store:       b.store,
		Cache:       b.cache,
		Objects:     b.objects,
		Graph:       b.graph,
		Embedder:    b.embedder,
		ExternalURL: "http://localhost:8080",
	})
	require.NoError(t, err)
	return service, b
}

func mustEntity(t *testing.T, service *catalog.Service, name string) *catalog.Entity {
	t.Helper()

	entity, err := service.Entity(name)
	require.NoError(t, err)
	return entity
}

func guidePayload(slug, title string) []byte {
	return []byte(fmt.Sprintf(`{
		"urn": %q,
		"title": %q,
		"description": "A dietary guide",
		"url": "https://wisefood.gr/guides/%s",
		"license": "CC-BY-4.0",
		"content": "Eat vegetables and olive oil."
	}`, slug, title, slug))
}

func seedGuide(t *testing.T, store *fake.DocumentStore, slug, id string) string {
	t.Helper()

	urn := catalog.BuildURN(catalog.EntityGuide, slug)
	store.Seed("guides", urn, map[string]any{
		"urn":   urn,
		"id":    id,
		"title": slug,
	})
	return urn
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("requires a document store", func(t *testing.T) {
		t.Parallel()

		service, err := catalog.NewService(catalog.Config{})
		require.EqualError(t, err, "catalog: a document store is required")
		assert.Nil(t, service)
	})

	t.Run("registers the default entities", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		entities := service.Entities()
		require.Len(t, entities, 6)

		collections := make([]string, 0, len(entities))
		for _, entity := range entities {
			collections = append(collections, entity.Collection)
		}
		assert.Equal(t, []string{"articles", "artifacts", "guides", "organizations", "policies", "recipes"}, collections)
	})

	t.Run("resolves entities by name and collection", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)

		entity, err := service.Entity(catalog.EntityRecipe)
		require.NoError(t, err)
		assert.Equal(t, "recipes", entity.Collection)

		entity, err = service.EntityByCollection("recipes")
		require.NoError(t, err)
		assert.Equal(t, catalog.EntityRecipe, entity.Name)

		_, err = service.Entity("planet")
		require.ErrorIs(t, err, catalog.ErrNotFound)

		_, err = service.EntityByCollection("planets")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	service, b := newTestService(t)
	seedGuide(t, b.store, "mediterranean-diet", testUUID)

	tests := map[string]struct {
		entity        string
		identifier    string
		expectedID    string
		expectedError error
	}{
		"bare slug is expanded": {
			entity:     catalog.EntityGuide,
			identifier: "mediterranean-diet",
			expectedID: "urn:guide:mediterranean-diet",
		},
		"matching urn passes through": {
			entity:     catalog.EntityGuide,
			identifier: "urn:guide:mediterranean-diet",
			expectedID: "urn:guide:mediterranean-diet",
		},
		"uuid resolves to the stored urn": {
			entity:     catalog.EntityGuide,
			identifier: testUUID,
			expectedID: "urn:guide:mediterranean-diet",
		},
		"artifact uuid is used directly": {
			entity:     catalog.EntityArtifact,
			identifier: testUUID,
			expectedID: testUUID,
		},
		"unknown uuid": {
			entity:        catalog.EntityGuide,
			identifier:    "9d4347be-9e06-41ee-910b-bf9e04fa0785",
			expectedError: catalog.ErrNotFound,
		},
		"urn of another entity type": {
			entity:        catalog.EntityGuide,
			identifier:    "urn:recipe:moussaka",
			expectedError: catalog.ErrInvalidData,
		},
		"empty identifier": {
			entity:        catalog.EntityGuide,
			identifier:    "",
			expectedError: catalog.ErrInvalidData,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			entity := mustEntity(t, service, test.entity)
			id, err := service.Identifier(t.Context(), entity, test.identifier)
			if test.expectedError != nil {
				require.ErrorIs(t, err, test.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedID, id)
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	service, b := newTestService(t)
	seedGuide(t, b.store, "alpha", "11111111-1111-1111-1111-111111111111")
	seedGuide(t, b.store, "beta", "22222222-2222-2222-2222-222222222222")
	guide := mustEntity(t, service, catalog.EntityGuide)

	t.Run("returns every id", func(t *testing.T) {
		ids, err := service.List(t.Context(), guide, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"urn:guide:alpha", "urn:guide:beta"}, ids)
	})

	t.Run("pages with limit and offset", func(t *testing.T) {
		ids, err := service.List(t.Context(), guide, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"urn:guide:beta"}, ids)
	})

	t.Run("artifacts cannot be listed", func(t *testing.T) {
		artifact := mustEntity(t, service, catalog.EntityArtifact)
		_, err := service.List(t.Context(), artifact, 0, 0)
		require.ErrorIs(t, err, catalog.ErrNotAllowed)
	})
}

func TestFetch(t *testing.T) {
	t.Parallel()

	service, b := newTestService(t)
	seedGuide(t, b.store, "alpha", "11111111-1111-1111-1111-111111111111")
	seedGuide(t, b.store, "beta", "22222222-2222-2222-2222-222222222222")
	guide := mustEntity(t, service, catalog.EntityGuide)

	documents, err := service.Fetch(t.Context(), guide, 0, 0)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "urn:guide:alpha", documents[0]["urn"])
	assert.Equal(t, "urn:guide:beta", documents[1]["urn"])
}

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored document with its artifacts", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		urn := seedGuide(t, b.store, "mediterranean-diet", testUUID)
		b.store.Seed("artifacts", "aaaaaaaa-0000-0000-0000-000000000001", map[string]any{
			"id":         "aaaaaaaa-0000-0000-0000-000000000001",
			"parent_urn": urn,
			"title":      "poster.pdf",
		})
		b.store.Seed("artifacts", "aaaaaaaa-0000-0000-0000-000000000002", map[string]any{
			"id":         "aaaaaaaa-0000-0000-0000-000000000002",
			"parent_urn": "urn:guide:another",
			"title":      "other.pdf",
		})

		document, err := service.Get(t.Context(), mustEntity(t, service, catalog.EntityGuide), "mediterranean-diet")
		require.NoError(t, err)
		assert.Equal(t, urn, document["urn"])

		artifacts, ok := document["artifacts"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, artifacts, 1)
		assert.Equal(t, "poster.pdf", artifacts[0]["title"])
	})

	t.Run("serves repeated reads from the cache", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		urn := seedGuide(t, b.store, "mediterranean-diet", testUUID)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Get(t.Context(), guide, urn)
		require.NoError(t, err)
		assert.Contains(t, b.cache.SetKeys, urn)

		b.store.Err = fmt.Errorf("%w: search backend down", catalog.ErrBadGateway)
		document, err := service.Get(t.Context(), guide, urn)
		require.NoError(t, err)
		assert.Equal(t, urn, document["urn"])
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		_, err := service.Get(t.Context(), mustEntity(t, service, catalog.EntityGuide), "missing")
		require.ErrorIs(t, err, catalog.ErrNotFound)
		require.ErrorContains(t, err, `guide "urn:guide:missing"`)
	})
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("stores a new guide with system fields", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		document, err := service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "Mediterranean Diet"), "nutritionist")
		require.NoError(t, err)

		assert.Equal(t, "urn:guide:mediterranean-diet", document["urn"])
		assert.Equal(t, "Mediterranean Diet", document["title"])
		assert.Equal(t, "active", document["status"])
		assert.Equal(t, "nutritionist", document["creator"])
		assert.True(t, catalog.IsUUID(document["id"].(string)))

		createdAt, err := time.Parse(time.RFC3339, document["created_at"].(string))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), createdAt, time.Minute)
		assert.Equal(t, document["created_at"], document["updated_at"])

		stored, found := b.store.Document("guides", "urn:guide:mediterranean-diet")
		require.True(t, found)
		assert.NotEmpty(t, stored["embedding"])
		assert.Equal(t, []string{"Mediterranean Diet"}, b.embedder.EmbeddedTexts)

		require.Len(t, b.graph.Nodes, 1)
		assert.Equal(t, fake.Node{Label: "Guide", URN: "urn:guide:mediterranean-diet", Title: "Mediterranean Diet"}, b.graph.Nodes[0])
	})

	t.Run("rejects duplicate slugs", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "First"), "")
		require.NoError(t, err)

		_, err = service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "Second"), "")
		require.ErrorIs(t, err, catalog.ErrConflict)
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Create(t.Context(), guide, []byte(`{"urn": "Not A Slug"}`), "")
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})

	t.Run("fails when the embedding provider fails", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		b.embedder.Err = fmt.Errorf("model offline")
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "Mediterranean Diet"), "")
		require.ErrorIs(t, err, catalog.ErrBadGateway)
	})

	t.Run("fails when the lineage graph write fails", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		b.graph.Err = fmt.Errorf("bolt connection refused")
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "Mediterranean Diet"), "")
		require.ErrorContains(t, err, "lineage graph")
	})

	t.Run("organizations are not mirrored in the graph", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		organization := mustEntity(t, service, catalog.EntityOrganization)

		_, err := service.Create(t.Context(), organization, []byte(`{
			"urn": "wisefood",
			"name": "WiseFood",
			"description": "Food knowledge platform"
		}`), "")
		require.NoError(t, err)
		assert.Empty(t, b.graph.Nodes)
	})
}

func TestPatch(t *testing.T) {
	t.Parallel()

	t.Run("updates the provided fields only", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		created, err := service.Create(t.Context(), guide, guidePayload("mediterranean-diet", "Mediterranean Diet"), "nutritionist")
		require.NoError(t, err)

		updated, err := service.Patch(t.Context(), guide, "mediterranean-diet", []byte(`{"title": "The Mediterranean Diet"}`))
		require.NoError(t, err)

		assert.Equal(t, "The Mediterranean Diet", updated["title"])
		assert.Equal(t, created["description"], updated["description"])
		assert.Equal(t, "nutritionist", updated["creator"])
		assert.Equal(t, created["created_at"], updated["created_at"])
		assert.Contains(t, b.cache.DeletedKeys, "urn:guide:mediterranean-diet")

		createdAt, err := time.Parse(time.RFC3339, updated["created_at"].(string))
		require.NoError(t, err)
		updatedAt, err := time.Parse(time.RFC3339, updated["updated_at"].(string))
		require.NoError(t, err)
		assert.False(t, updatedAt.Before(createdAt))
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Patch(t.Context(), guide, "missing", []byte(`{"title": "New"}`))
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("rejects system field updates", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		urn := seedGuide(t, b.store, "mediterranean-diet", testUUID)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Patch(t.Context(), guide, urn, []byte(`{"creator": "someone-else"}`))
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})

	t.Run("rejects empty updates", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		urn := seedGuide(t, b.store, "mediterranean-diet", testUUID)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Patch(t.Context(), guide, urn, []byte(`{}`))
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes the entity", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		urn := seedGuide(t, b.store, "mediterranean-diet", testUUID)
		guide := mustEntity(t, service, catalog.EntityGuide)

		result, err := service.Delete(t.Context(), guide, "mediterranean-diet")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"deleted": urn}, result)
		assert.Contains(t, b.cache.DeletedKeys, urn)

		_, found := b.store.Document("guides", urn)
		assert.False(t, found)
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		guide := mustEntity(t, service, catalog.EntityGuide)

		_, err := service.Delete(t.Context(), guide, "missing")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("organizations cannot be deleted", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		organization := mustEntity(t, service, catalog.EntityOrganization)

		_, err := service.Delete(t.Context(), organization, "wisefood")
		require.ErrorIs(t, err, catalog.ErrNotAllowed)
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()

	newSearchService := func(t *testing.T) *catalog.Service {
		t.Helper()

		service, b := newTestService(t)
		b.store.Seed("guides", "urn:guide:mediterranean-diet", map[string]any{
			"urn":    "urn:guide:mediterranean-diet",
			"title":  "Mediterranean Diet",
			"region": "GR",
		})
		b.store.Seed("guides", "urn:guide:nordic-diet", map[string]any{
			"urn":    "urn:guide:nordic-diet",
			"title":  "Nordic Diet",
			"region": "SE",
		})
		return service
	}

	t.Run("star matches everything", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		result, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{Q: "*"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, result.Count)
		assert.Len(t, result.Results, 2)
	})

	t.Run("free text matches the search fields", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		result, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{Q: "nordic"})
		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "Nordic Diet", result.Results[0]["title"])
	})

	t.Run("filter queries narrow the results", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		result, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{
			Q:  "*",
			FQ: []string{`region:"GR"`},
		})
		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "Mediterranean Diet", result.Results[0]["title"])
	})

	t.Run("field list projects the results", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		result, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{
			Q:  "*",
			FL: []string{"urn"},
		})
		require.NoError(t, err)
		require.Len(t, result.Results, 2)
		assert.Equal(t, map[string]any{"urn": "urn:guide:mediterranean-diet"}, result.Results[0])
	})

	t.Run("facets count field values over all matches", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		result, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{
			Q:      "*",
			Limit:  1,
			Fields: []string{"region"},
		})
		require.NoError(t, err)
		assert.Len(t, result.Results, 1)
		assert.Equal(t, map[string]map[string]int64{
			"region": {"GR": 1, "SE": 1},
		}, result.Facets)
	})

	t.Run("rejects out of range limits", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		_, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityGuide), schema.SearchSpec{Q: "*", Limit: 500})
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})

	t.Run("artifacts cannot be searched directly", func(t *testing.T) {
		t.Parallel()

		service := newSearchService(t)
		_, err := service.Search(t.Context(), mustEntity(t, service, catalog.EntityArtifact), schema.SearchSpec{Q: "*"})
		require.ErrorIs(t, err, catalog.ErrNotAllowed)
	})
}

func TestSemanticSearch(t *testing.T) {
	t.Parallel()

	t.Run("ranks documents by vector similarity", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		b.store.Seed("guides", "urn:guide:close", map[string]any{
			"urn":       "urn:guide:close",
			"title":     "Close Match",
			"embedding": []float32{1, 0, 0},
		})
		b.store.Seed("guides", "urn:guide:far", map[string]any{
			"urn":       "urn:guide:far",
			"title":     "Far Match",
			"embedding": []float32{0, 1, 0},
		})

		result, err := service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityGuide), "healthy fats", 0)
		require.NoError(t, err)
		require.Len(t, result.Results, 2)
		assert.Equal(t, "urn:guide:close", result.Results[0]["urn"])
		assert.NotContains(t, result.Results[0], "embedding")
		assert.Equal(t, []string{"healthy fats"}, b.embedder.EmbeddedTexts)
	})

	t.Run("caps the neighbours at k", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		b.store.Seed("guides", "urn:guide:close", map[string]any{
			"urn": "urn:guide:close", "embedding": []float32{1, 0, 0},
		})
		b.store.Seed("guides", "urn:guide:far", map[string]any{
			"urn": "urn:guide:far", "embedding": []float32{0, 1, 0},
		})

		result, err := service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityGuide), "healthy fats", 1)
		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "urn:guide:close", result.Results[0]["urn"])
	})

	t.Run("requires an embedding provider", func(t *testing.T) {
		t.Parallel()

		store := fake.NewDocumentStore(t)
		service, err := catalog.NewService(catalog.Config{Store: store})
		require.NoError(t, err)

		_, err = service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityGuide), "healthy fats", 0)
		require.ErrorIs(t, err, catalog.ErrNotAllowed)
		require.ErrorContains(t, err, "embedding provider")
	})

	t.Run("rejects empty queries", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		_, err := service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityGuide), "  ", 0)
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})

	t.Run("articles have no semantic index", func(t *testing.T) {
		t.Parallel()

		service, _ := newTestService(t)
		_, err := service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityArticle), "healthy fats", 0)
		require.ErrorIs(t, err, catalog.ErrNotAllowed)
	})

	t.Run("embedding failures surface as bad gateway", func(t *testing.T) {
		t.Parallel()

		service, b := newTestService(t)
		b.embedder.Err = fmt.Errorf("model offline")
		_, err := service.SemanticSearch(t.Context(), mustEntity(t, service, catalog.EntityGuide), "healthy fats", 0)
		require.ErrorIs(t, err, catalog.ErrBadGateway)
	})
}
