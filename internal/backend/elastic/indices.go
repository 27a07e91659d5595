// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package elastic

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/logger"
)

//go:embed indices.yaml
var indicesYAML []byte

// ErrParsing reports failures that occur while decoding index definitions.
var ErrParsing = errors.New("error parsing index definitions")

// indexDefinition is one index entry of indices.yaml. Semantic indices get
// the embedding fields injected at creation time.
type indexDefinition struct {
	Semantic bool           `yaml:"semantic"`
	Mappings map[string]any `yaml:"mappings"`
}

func parseIndexDefinitions(data []byte) (map[string]indexDefinition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	definitions := map[string]indexDefinition{}
	if err := decoder.Decode(&definitions); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParsing, err)
	}
	for name, definition := range definitions {
		if len(definition.Mappings) == 0 {
			return nil, fmt.Errorf("%w: index %q has no mappings", ErrParsing, name)
		}
	}
	return definitions, nil
}

// EnsureIndices creates every missing catalog index. Existing indices are
// left untouched, so mapping changes need a manual reindex.
func (s *Store) EnsureIndices(ctx context.Context) error {
	definitions, err := parseIndexDefinitions(indicesYAML)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	log := logger.FromContext(ctx)
	for _, name := range names {
		exists, err := s.indexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("checking index %q: %w", name, err)
		}
		if exists {
			log.Debug("index already exists", "index", name)
			continue
		}
		if err := s.createIndex(ctx, name, definitions[name]); err != nil {
			return fmt.Errorf("creating index %q: %w", name, err)
		}
		log.Info("created index", "index", name)
	}
	return nil
}

func (s *Store) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.client.Indices.Exists([]string{name},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, transportError(err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, apiError(res)
	}
	return true, nil
}

func (s *Store) createIndex(ctx context.Context, name string, definition indexDefinition) error {
	if definition.Semantic {
		s.injectEmbeddingFields(definition.Mappings)
	}

	body, err := json.Marshal(map[string]any{"mappings": definition.Mappings})
	if err != nil {
		return fmt.Errorf("%w: encoding mappings: %s", catalog.ErrInternal, err)
	}

	res, err := s.client.Indices.Create(name,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return transportError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

func (s *Store) injectEmbeddingFields(mappings map[string]any) {
	properties, ok := mappings["properties"].(map[string]any)
	if !ok {
		properties = map[string]any{}
		mappings["properties"] = properties
	}
	properties["embedding"] = map[string]any{
		"type":       "dense_vector",
		"dims":       s.dims,
		"index":      true,
		"similarity": "cosine",
	}
	properties["embedding_hint"] = map[string]any{"type": "text"}
}
