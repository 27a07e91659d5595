// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wisefood/data-catalog/internal/embedding"
	"github.com/wisefood/data-catalog/internal/logger"
	"github.com/wisefood/data-catalog/internal/schema"
)

const (
	// defaultPageSize bounds list and fetch operations without an explicit
	// limit.
	defaultPageSize = 100
	// defaultNeighbours is the k of a semantic search without an explicit one.
	defaultNeighbours = 5
)

// Config wires a Service to its backends. Store is required; Cache, Objects,
// Graph and Embedder are optional subsystems and may be nil.
type Config struct {
	Store    DocumentStore
	Cache    Cache
	Objects  ObjectStore
	Graph    LineageStore
	Embedder embedding.Provider

	// ExternalURL is the public base URL of the service, used to build
	// artifact download links.
	ExternalURL string
	// ContextPath prefixes every route when the service runs behind a path
	// rewriting proxy.
	ContextPath string
}

// Service implements the catalog operations shared by every entity.
type Service struct {
	store    DocumentStore
	cache    Cache
	objects  ObjectStore
	graph    LineageStore
	embedder embedding.Provider

	externalURL string
	contextPath string

	entities    map[string]*Entity
	collections map[string]*Entity
}

// NewService builds the catalog service with the default entity registry.
func NewService(config Config) (*Service, error) {
	if config.Store == nil {
		return nil, errors.New("catalog: a document store is required")
	}

	service := &Service{
		store:       config.Store,
		cache:       config.Cache,
		objects:     config.Objects,
		graph:       config.Graph,
		embedder:    config.Embedder,
		externalURL: strings.TrimSuffix(config.ExternalURL, "/"),
		contextPath: config.ContextPath,
		entities:    make(map[string]*Entity),
		collections: make(map[string]*Entity),
	}
	for _, entity := range defaultEntities() {
		service.entities[entity.Name] = entity
		service.collections[entity.Collection] = entity
	}
	return service, nil
}

// Entity returns the descriptor registered under the given name.
func (s *Service) Entity(name string) (*Entity, error) {
	entity, ok := s.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity %q", ErrNotFound, name)
	}
	return entity, nil
}

// EntityByCollection resolves a collection segment to its descriptor.
func (s *Service) EntityByCollection(collection string) (*Entity, error) {
	entity, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", ErrNotFound, collection)
	}
	return entity, nil
}

// Entities returns every registered descriptor ordered by collection.
func (s *Service) Entities() []*Entity {
	entities := make([]*Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Collection < entities[j].Collection
	})
	return entities
}

// Identifier resolves a client supplied identifier to the id the entity is
// stored under: UUIDs are looked up (artifacts use them directly), full URNs
// of the entity pass through and bare slugs are expanded.
func (s *Service) Identifier(ctx context.Context, entity *Entity, identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidData)
	}

	if IsUUID(identifier) {
		if entity.Name == EntityArtifact {
			return identifier, nil
		}
		urn, err := s.store.ResolveURN(ctx, entity.Collection, identifier)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", fmt.Errorf("%w: %s with id %q", ErrNotFound, entity.Name, identifier)
			}
			return "", fmt.Errorf("resolving %s id %q: %w", entity.Name, identifier, err)
		}
		return urn, nil
	}

	if strings.HasPrefix(identifier, urnScheme+":") {
		if !strings.HasPrefix(identifier, BuildURN(entity.Name, "")) {
			return "", fmt.Errorf("%w: urn %q does not address a %s", ErrInvalidData, identifier, entity.Name)
		}
		return identifier, nil
	}
	return BuildURN(entity.Name, identifier), nil
}

// List pages over the ids of a collection.
func (s *Service) List(ctx context.Context, entity *Entity, limit, offset int) ([]string, error) {
	if !entity.Supports(OpList) {
		return nil, fmt.Errorf("%w: the %s entity does not support listing", ErrNotAllowed, entity.Name)
	}

	limit, offset = pageBounds(limit, offset)
	ids, err := s.store.ListIDs(ctx, entity.Collection, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", entity.Collection, err)
	}
	return ids, nil
}

// Fetch pages over the documents of a collection.
func (s *Service) Fetch(ctx context.Context, entity *Entity, limit, offset int) ([]map[string]any, error) {
	if !entity.Supports(OpFetch) {
		return nil, fmt.Errorf("%w: the %s entity does not support fetching", ErrNotAllowed, entity.Name)
	}

	limit, offset = pageBounds(limit, offset)
	documents, err := s.store.Fetch(ctx, entity.Collection, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", entity.Collection, err)
	}
	return documents, nil
}

// Get returns a single entity, from the cache when possible.
func (s *Service) Get(ctx context.Context, entity *Entity, identifier string) (map[string]any, error) {
	if !entity.Supports(OpGet) {
		return nil, fmt.Errorf("%w: the %s entity does not support reads", ErrNotAllowed, entity.Name)
	}

	id, err := s.Identifier(ctx, entity, identifier)
	if err != nil {
		return nil, err
	}

	if document := s.cachedDocument(ctx, id); document != nil {
		return document, nil
	}

	document, err := s.store.Get(ctx, entity.Collection, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %q", ErrNotFound, entity.Name, id)
		}
		return nil, fmt.Errorf("reading %s %q: %w", entity.Name, id, err)
	}

	if entity.AfterGet != nil {
		if err := entity.AfterGet(ctx, s, document); err != nil {
			return nil, err
		}
	}

	s.cacheDocument(ctx, id, document)
	return document, nil
}

// Create validates and stores a new entity, then returns it as stored.
func (s *Service) Create(ctx context.Context, entity *Entity, payload []byte, creator string) (map[string]any, error) {
	if !entity.Supports(OpCreate) || entity.DecodeCreate == nil {
		return nil, fmt.Errorf("%w: the %s entity does not support creation", ErrNotAllowed, entity.Name)
	}
	if entity.Name == EntityArtifact {
		return s.CreateArtifact(ctx, payload, creator)
	}

	document, err := entity.DecodeCreate(payload)
	if err != nil {
		return nil, err
	}

	slug, _ := document["urn"].(string)
	urn := BuildURN(entity.Name, SlugOf(slug))
	if _, err := s.store.Get(ctx, entity.Collection, urn); err == nil {
		return nil, fmt.Errorf("%w: %s %q", ErrConflict, entity.Name, urn)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking %s %q: %w", entity.Name, urn, err)
	}

	s.upsertSystemFields(entity, document, creator, false)
	if err := s.embedDocument(ctx, entity, document); err != nil {
		return nil, err
	}

	if err := s.store.Index(ctx, entity.Collection, urn, document); err != nil {
		return nil, fmt.Errorf("creating %s %q: %w", entity.Name, urn, err)
	}

	if s.graph != nil && entity.GraphLabel != "" {
		title, _ := document["title"].(string)
		if err := s.graph.MergeNode(ctx, entity.GraphLabel, urn, title); err != nil {
			return nil, fmt.Errorf("recording %s %q in the lineage graph: %w", entity.Name, urn, err)
		}
	}
	return s.Get(ctx, entity, urn)
}

// Patch applies a partial update and returns the entity as stored.
func (s *Service) Patch(ctx context.Context, entity *Entity, identifier string, payload []byte) (map[string]any, error) {
	if !entity.Supports(OpPatch) || entity.DecodePatch == nil {
		return nil, fmt.Errorf("%w: the %s entity does not support updates", ErrNotAllowed, entity.Name)
	}

	urn, err := s.Identifier(ctx, entity, identifier)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, urn)

	fields, err := entity.DecodePatch(payload)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Get(ctx, entity.Collection, urn); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %q", ErrNotFound, entity.Name, urn)
		}
		return nil, fmt.Errorf("reading %s %q: %w", entity.Name, urn, err)
	}

	s.upsertSystemFields(entity, fields, "", true)
	if err := s.store.Update(ctx, entity.Collection, urn, fields); err != nil {
		return nil, fmt.Errorf("updating %s %q: %w", entity.Name, urn, err)
	}
	return s.Get(ctx, entity, urn)
}

// Delete removes an entity permanently.
func (s *Service) Delete(ctx context.Context, entity *Entity, identifier string) (map[string]any, error) {
	if !entity.Supports(OpDelete) {
		return nil, fmt.Errorf("%w: the %s entity does not support deletion", ErrNotAllowed, entity.Name)
	}

	urn, err := s.Identifier(ctx, entity, identifier)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, urn)

	if err := s.store.Delete(ctx, entity.Collection, urn); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %q", ErrNotFound, entity.Name, urn)
		}
		return nil, fmt.Errorf("deleting %s %q: %w", entity.Name, urn, err)
	}
	return map[string]any{"deleted": urn}, nil
}

// Search runs a free text query over a collection.
func (s *Service) Search(ctx context.Context, entity *Entity, spec schema.SearchSpec) (*SearchResult, error) {
	if !entity.Supports(OpSearch) {
		return nil, fmt.Errorf("%w: the %s entity does not support searching", ErrNotAllowed, entity.Name)
	}

	spec.SetDefaults()
	if err := schema.Validate(&spec); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}

	result, err := s.store.Search(ctx, entity.Collection, spec, entity.SearchFields)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", entity.Collection, err)
	}
	return result, nil
}

// SemanticSearch embeds the query and runs a nearest neighbour search.
func (s *Service) SemanticSearch(ctx context.Context, entity *Entity, query string, k int) (*SearchResult, error) {
	if !entity.Supports(OpSemanticSearch) {
		return nil, fmt.Errorf("%w: the %s entity does not support semantic search", ErrNotAllowed, entity.Name)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: semantic search requires an embedding provider", ErrNotAllowed)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidData)
	}
	if k <= 0 {
		k = defaultNeighbours
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %s", ErrBadGateway, err)
	}

	result, err := s.store.SemanticSearch(ctx, entity.Collection, vector, k)
	if err != nil {
		return nil, fmt.Errorf("semantic search over %s: %w", entity.Collection, err)
	}
	return result, nil
}

// upsertSystemFields fills the system managed fields of a document: the
// normalized urn, the internal id, the creator and the timestamps. Updates
// only refresh updated_at and never carry a creator.
func (s *Service) upsertSystemFields(entity *Entity, document map[string]any, creator string, update bool) {
	now := time.Now().UTC().Format(time.RFC3339)
	if update {
		delete(document, "creator")
		document["updated_at"] = now
		return
	}

	if slug, ok := document["urn"].(string); ok {
		document["urn"] = BuildURN(entity.Name, SlugOf(slug))
		document["id"] = uuid.NewString()
	}
	if _, ok := document["id"]; !ok {
		document["id"] = uuid.NewString()
	}
	if creator != "" {
		document["creator"] = creator
	}
	document["created_at"] = now
	document["updated_at"] = now
}

func (s *Service) embedDocument(ctx context.Context, entity *Entity, document map[string]any) error {
	if s.embedder == nil || entity.EmbedHint == nil {
		return nil
	}
	if _, ok := document["embedding"]; ok {
		return nil
	}
	text := entity.EmbedHint(document)
	if text == "" {
		return nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: embedding %s %q: %s", ErrBadGateway, entity.Name, text, err)
	}
	document["embedding"] = vector
	return nil
}

func (s *Service) cachedDocument(ctx context.Context, key string) map[string]any {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.FromContext(ctx).Warn("failed to read cached entity", "key", key, "error", err.Error())
		}
		return nil
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		logger.FromContext(ctx).Warn("discarding unreadable cached entity", "key", key, "error", err.Error())
		return nil
	}
	return document
}

func (s *Service) cacheDocument(ctx context.Context, key string, document map[string]any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(document)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to encode entity for caching", "key", key, "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		logger.FromContext(ctx).Warn("failed to cache entity", "key", key, "error", err.Error())
	}
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate cached entity", "key", key, "error", err.Error())
	}
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
