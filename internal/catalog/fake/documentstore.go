// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/schema"
)

var _ catalog.DocumentStore = &DocumentStore{}

// DocumentStore keeps documents in memory and answers queries with naive
// scans. Documents round trip through JSON on every read and write so tests
// observe the same type mangling a real backend produces.
type DocumentStore struct {
	tb testing.TB
	mu sync.Mutex

	collections map[string]map[string]map[string]any

	// Err fails every call when set. IndexErr fails only Index.
	Err      error
	IndexErr error
}

func NewDocumentStore(tb testing.TB) *DocumentStore {
	tb.Helper()
	return &DocumentStore{
		tb:          tb,
		collections: map[string]map[string]map[string]any{},
	}
}

// Seed stores a document without going through Index error injection.
func (s *DocumentStore) Seed(collection, id string, document map[string]any) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[id] = copyDocument(s.tb, document)
}

// Document returns the stored raw document and whether it exists.
func (s *DocumentStore) Document(collection, id string) (map[string]any, bool) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	document, found := s.collection(collection)[id]
	if !found {
		return nil, false
	}
	return copyDocument(s.tb, document), true
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	document, found := s.collection(collection)[id]
	if !found {
		return nil, fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}

	copied := copyDocument(s.tb, document)
	delete(copied, "embedding")
	return copied, nil
}

func (s *DocumentStore) Index(_ context.Context, collection, id string, document map[string]any) error {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if s.IndexErr != nil {
		return s.IndexErr
	}

	s.collection(collection)[id] = copyDocument(s.tb, document)
	return nil
}

func (s *DocumentStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	document, found := s.collection(collection)[id]
	if !found {
		return fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}
	for key, value := range copyDocument(s.tb, fields) {
		document[key] = value
	}
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, collection, id string) error {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if _, found := s.collection(collection)[id]; !found {
		return fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}
	delete(s.collection(collection), id)
	return nil
}

func (s *DocumentStore) ListIDs(_ context.Context, collection string, limit, offset int) ([]string, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	ids := s.sortedIDs(collection)
	return page(ids, limit, offset), nil
}

func (s *DocumentStore) Fetch(_ context.Context, collection string, limit, offset int) ([]map[string]any, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	documents := make([]map[string]any, 0, len(s.collection(collection)))
	for _, id := range s.sortedIDs(collection) {
		document := copyDocument(s.tb, s.collection(collection)[id])
		delete(document, "embedding")
		delete(document, "embedding_hint")
		documents = append(documents, document)
	}
	return page(documents, limit, offset), nil
}

func (s *DocumentStore) Search(_ context.Context, collection string, spec schema.SearchSpec, searchFields []string) (*catalog.SearchResult, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	matched := make([]map[string]any, 0)
	for _, id := range s.sortedIDs(collection) {
		document := s.collection(collection)[id]
		if !matchesQuery(document, spec.Q, searchFields) {
			continue
		}
		if !matchesFilters(document, spec.FQ) {
			continue
		}
		matched = append(matched, copyDocument(s.tb, document))
	}

	result := &catalog.SearchResult{Count: int64(len(matched))}
	if len(spec.Fields) > 0 {
		result.Facets = facets(matched, spec.Fields)
	}

	for _, document := range page(matched, spec.Limit, spec.Offset) {
		delete(document, "embedding")
		delete(document, "embedding_hint")
		result.Results = append(result.Results, project(document, spec.FL))
	}
	return result, nil
}

func (s *DocumentStore) SemanticSearch(_ context.Context, collection string, vector []float32, k int) (*catalog.SearchResult, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0)
	for _, id := range s.sortedIDs(collection) {
		embedded, found := s.collection(collection)[id]["embedding"].([]any)
		if !found {
			continue
		}
		ranked = append(ranked, scored{id: id, score: dotProduct(vector, embedded)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	result := &catalog.SearchResult{Count: int64(len(ranked))}
	for _, hit := range ranked {
		document := copyDocument(s.tb, s.collection(collection)[hit.id])
		delete(document, "embedding")
		delete(document, "embedding_hint")
		result.Results = append(result.Results, document)
	}
	return result, nil
}

func (s *DocumentStore) ResolveURN(_ context.Context, collection, uuid string) (string, error) {
	s.tb.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}

	for _, document := range s.collection(collection) {
		if document["id"] == uuid {
			if urn, ok := document["urn"].(string); ok {
				return urn, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no %q document with id %q", catalog.ErrNotFound, collection, uuid)
}

func (s *DocumentStore) collection(name string) map[string]map[string]any {
	documents, found := s.collections[name]
	if !found {
		documents = map[string]map[string]any{}
		s.collections[name] = documents
	}
	return documents
}

func (s *DocumentStore) sortedIDs(collection string) []string {
	ids := make([]string, 0, len(s.collection(collection)))
	for id := range s.collection(collection) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyDocument(tb testing.TB, document map[string]any) map[string]any {
	tb.Helper()

	data, err := json.Marshal(document)
	if err != nil {
		tb.Fatalf("copying document: %s", err)
	}
	copied := map[string]any{}
	if err := json.Unmarshal(data, &copied); err != nil {
		tb.Fatalf("copying document: %s", err)
	}
	return copied
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func matchesQuery(document map[string]any, query string, searchFields []string) bool {
	query = strings.TrimSpace(query)
	if query == "" || query == "*" {
		return true
	}

	query = strings.ToLower(query)
	for _, field := range searchFields {
		field, _, _ = strings.Cut(field, "^")
		for _, value := range fieldValues(document, field) {
			if strings.Contains(strings.ToLower(fmt.Sprint(value)), query) {
				return true
			}
		}
	}
	return false
}

func matchesFilters(document map[string]any, filters []string) bool {
	for _, filter := range filters {
		field, value, found := strings.Cut(filter, ":")
		if !found {
			return false
		}
		value = strings.Trim(value, `"`)

		var matched bool
		for _, candidate := range fieldValues(document, field) {
			if fmt.Sprint(candidate) == value {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// fieldValues resolves a possibly nested field like "ingredients.name" to the
// list of values it holds in the document.
func fieldValues(document map[string]any, field string) []any {
	head, rest, nested := strings.Cut(field, ".")
	value, found := document[head]
	if !found {
		return nil
	}
	if !nested {
		if list, ok := value.([]any); ok {
			return list
		}
		return []any{value}
	}

	switch typed := value.(type) {
	case map[string]any:
		return fieldValues(typed, rest)
	case []any:
		var values []any
		for _, element := range typed {
			if inner, ok := element.(map[string]any); ok {
				values = append(values, fieldValues(inner, rest)...)
			}
		}
		return values
	default:
		return nil
	}
}

func project(document map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return document
	}

	projected := map[string]any{}
	for _, field := range fields {
		if value, found := document[field]; found {
			projected[field] = value
		}
	}
	return projected
}

func facets(documents []map[string]any, fields []string) map[string]map[string]int64 {
	counts := map[string]map[string]int64{}
	for _, field := range fields {
		counts[field] = map[string]int64{}
		for _, document := range documents {
			for _, value := range fieldValues(document, field) {
				counts[field][fmt.Sprint(value)]++
			}
		}
	}
	return counts
}

func dotProduct(vector []float32, embedded []any) float64 {
	var sum float64
	for i, value := range embedded {
		if i >= len(vector) {
			break
		}
		number, ok := value.(float64)
		if !ok {
			continue
		}
		sum += float64(vector[i]) * number
	}
	return sum
}
