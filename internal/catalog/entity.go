// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/wisefood/data-catalog/internal/schema"
)

// Operation names one verb of the catalog API surface.
type Operation string

const (
	OpList           Operation = "list"
	OpFetch          Operation = "fetch"
	OpGet            Operation = "get"
	OpCreate         Operation = "create"
	OpPatch          Operation = "patch"
	OpDelete         Operation = "delete"
	OpSearch         Operation = "search"
	OpSemanticSearch Operation = "semantic-search"
)

// Entity type names, also the type segment of their URNs.
const (
	EntityGuide        = "guide"
	EntityRecipe       = "recipe"
	EntityPolicy       = "policy"
	EntityArticle      = "article"
	EntityOrganization = "organization"
	EntityArtifact     = "artifact"
)

// Entity describes one catalog resource type: its naming, the operations it
// exposes and the hooks that differentiate it from the other entities.
type Entity struct {
	// Name is the singular entity name, also the type segment of its URNs.
	Name string
	// Collection is the plural name used for the index and the API routes.
	Collection string
	// GraphLabel is the lineage node label. Entities with an empty label are
	// not mirrored in the graph.
	GraphLabel string
	// SearchFields are the fields free text queries match against.
	SearchFields []string
	// Operations lists the verbs this entity exposes.
	Operations []Operation

	// DecodeCreate validates a creation payload and returns the initial
	// document.
	DecodeCreate func(payload []byte) (map[string]any, error)
	// DecodePatch validates an update payload and returns the fields to set.
	DecodePatch func(payload []byte) (map[string]any, error)
	// EmbedHint extracts the text a semantic entity is embedded from. Nil
	// for entities without semantic search.
	EmbedHint func(document map[string]any) string
	// AfterGet enriches a document after a read.
	AfterGet func(ctx context.Context, service *Service, document map[string]any) error
}

// Supports reports whether the entity exposes the given operation.
func (e *Entity) Supports(op Operation) bool {
	return slices.Contains(e.Operations, op)
}

// defaultEntities builds the descriptors of every resource type served by
// the catalog.
func defaultEntities() []*Entity {
	return []*Entity{
		{
			Name:         EntityGuide,
			Collection:   "guides",
			GraphLabel:   "Guide",
			SearchFields: []string{"title^3", "description", "content", "tags"},
			Operations: []Operation{
				OpList, OpFetch, OpGet, OpCreate, OpPatch, OpDelete, OpSearch, OpSemanticSearch,
			},
			DecodeCreate: decodeCreation[schema.GuideCreation],
			DecodePatch:  decodeUpdate[schema.GuideUpdate],
			EmbedHint:    embeddingHint,
			AfterGet:     attachArtifacts,
		},
		{
			Name:         EntityRecipe,
			Collection:   "recipes",
			GraphLabel:   "Recipe",
			SearchFields: []string{"title^3", "description", "ingredients.name", "tags"},
			Operations: []Operation{
				OpList, OpFetch, OpGet, OpCreate, OpPatch, OpDelete, OpSearch, OpSemanticSearch,
			},
			DecodeCreate: decodeCreation[schema.RecipeCreation],
			DecodePatch:  decodeUpdate[schema.RecipeUpdate],
			EmbedHint:    embeddingHint,
		},
		{
			Name:         EntityPolicy,
			Collection:   "policies",
			GraphLabel:   "Policy",
			SearchFields: []string{"title^3", "description", "content", "authority", "tags"},
			Operations: []Operation{
				OpList, OpFetch, OpGet, OpCreate, OpPatch, OpDelete, OpSearch, OpSemanticSearch,
			},
			DecodeCreate: decodeCreation[schema.PolicyCreation],
			DecodePatch:  decodeUpdate[schema.PolicyUpdate],
			EmbedHint:    embeddingHint,
		},
		{
			Name:         EntityArticle,
			Collection:   "articles",
			SearchFields: []string{"title^3", "abstract", "authors", "tags"},
			Operations: []Operation{
				OpList, OpFetch, OpGet, OpCreate, OpPatch, OpDelete, OpSearch,
			},
			DecodeCreate: decodeCreation[schema.ArticleCreation],
			DecodePatch:  decodeUpdate[schema.ArticleUpdate],
		},
		{
			Name:         EntityOrganization,
			Collection:   "organizations",
			SearchFields: []string{"name^3", "description", "industry", "location", "tags"},
			Operations: []Operation{
				OpList, OpFetch, OpGet, OpCreate, OpPatch, OpSearch,
			},
			DecodeCreate: decodeCreation[schema.OrganizationCreation],
			DecodePatch:  decodeUpdate[schema.OrganizationUpdate],
		},
		{
			Name:         EntityArtifact,
			Collection:   "artifacts",
			Operations:   []Operation{OpFetch, OpGet, OpCreate},
			DecodeCreate: decodeCreation[schema.ArtifactCreation],
		},
	}
}

// embeddingHint prefers the explicit hint, falling back to the title.
func embeddingHint(document map[string]any) string {
	if hint, ok := document["embedding_hint"].(string); ok && hint != "" {
		return hint
	}
	title, _ := document["title"].(string)
	return title
}

// attachArtifacts loads the artifacts referencing the document and stores
// them under its artifacts key.
func attachArtifacts(ctx context.Context, service *Service, document map[string]any) error {
	urn, _ := document["urn"].(string)
	if urn == "" {
		return nil
	}

	artifacts, err := service.artifactsByParent(ctx, urn)
	if err != nil {
		return fmt.Errorf("attaching artifacts to %q: %w", urn, err)
	}
	if artifacts == nil {
		artifacts = []map[string]any{}
	}
	document["artifacts"] = artifacts
	return nil
}

func decodeCreation[T any](payload []byte) (map[string]any, error) {
	var creation T
	if err := schema.DecodeStrict(payload, &creation); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}
	return toDocument(&creation)
}

func decodeUpdate[T any](payload []byte) (map[string]any, error) {
	var update T
	if err := schema.DecodeStrict(payload, &update); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}

	fields, err := schema.UpdateDoc(&update)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInternal, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: at least one field must be provided", ErrInvalidData)
	}
	return fields, nil
}

func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding document: %s", ErrInternal, err)
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %s", ErrInternal, err)
	}
	return document, nil
}
