// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/schema"
)

var _ catalog.DocumentStore = &Store{}

// Store implements catalog.DocumentStore on an Elasticsearch cluster. Writes
// use refresh=wait_for so they are visible to the read that follows them.
type Store struct {
	client *elasticsearch.Client
	dims   int
}

// NewStoreFromEnv connects to the cluster configured by the ELASTICSEARCH_*
// environment variables.
func NewStoreFromEnv() (*Store, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("building elasticsearch client: %w", err)
	}
	return &Store{client: client, dims: config.Dims}, nil
}

// Ping checks that the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return transportError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// Get implements catalog.DocumentStore. The embedding vector stays in the
// index.
func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	res, err := s.client.Get(collection, id,
		s.client.Get.WithContext(ctx),
		s.client.Get.WithSourceExcludes("embedding"),
	)
	if err != nil {
		return nil, transportError(err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}
	if res.IsError() {
		return nil, apiError(res)
	}

	var body struct {
		Source map[string]any `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %s", catalog.ErrInternal, err)
	}
	return body.Source, nil
}

// Index implements catalog.DocumentStore.
func (s *Store) Index(ctx context.Context, collection, id string, document map[string]any) error {
	payload, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("%w: encoding document: %s", catalog.ErrInternal, err)
	}

	res, err := s.client.Index(collection, bytes.NewReader(payload),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
		s.client.Index.WithRefresh("wait_for"),
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

// Update implements catalog.DocumentStore with a partial document merge.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := json.Marshal(map[string]any{"doc": fields})
	if err != nil {
		return fmt.Errorf("%w: encoding update: %s", catalog.ErrInternal, err)
	}

	res, err := s.client.Update(collection, id, bytes.NewReader(payload),
		s.client.Update.WithContext(ctx),
		s.client.Update.WithRefresh("wait_for"),
	)
	if err != nil {
		return transportError(err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// Delete implements catalog.DocumentStore.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.client.Delete(collection, id,
		s.client.Delete.WithContext(ctx),
		s.client.Delete.WithRefresh("wait_for"),
	)
	if err != nil {
		return transportError(err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %q in %q", catalog.ErrNotFound, id, collection)
	}
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// ListIDs implements catalog.DocumentStore.
func (s *Store) ListIDs(ctx context.Context, collection string, limit, offset int) ([]string, error) {
	response, err := s.runSearch(ctx, collection, listIDsBody(limit, offset))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Fetch implements catalog.DocumentStore.
func (s *Store) Fetch(ctx context.Context, collection string, limit, offset int) ([]map[string]any, error) {
	response, err := s.runSearch(ctx, collection, fetchBody(limit, offset))
	if err != nil {
		return nil, err
	}
	return response.sources(), nil
}

// Search implements catalog.DocumentStore.
func (s *Store) Search(ctx context.Context, collection string, spec schema.SearchSpec, searchFields []string) (*catalog.SearchResult, error) {
	response, err := s.runSearch(ctx, collection, searchBody(spec, searchFields))
	if err != nil {
		return nil, err
	}

	result := &catalog.SearchResult{
		Count:   response.Hits.Total.Value,
		Results: response.sources(),
	}
	if len(response.Aggregations) > 0 {
		result.Facets = response.facets()
	}
	return result, nil
}

// SemanticSearch implements catalog.DocumentStore with an approximate
// nearest neighbour query over the embedding field.
func (s *Store) SemanticSearch(ctx context.Context, collection string, vector []float32, k int) (*catalog.SearchResult, error) {
	response, err := s.runSearch(ctx, collection, knnBody(vector, k))
	if err != nil {
		return nil, err
	}
	return &catalog.SearchResult{
		Count:   int64(len(response.Hits.Hits)),
		Results: response.sources(),
	}, nil
}

// ResolveURN implements catalog.DocumentStore with a term query on the id
// field.
func (s *Store) ResolveURN(ctx context.Context, collection, uuid string) (string, error) {
	response, err := s.runSearch(ctx, collection, resolveBody(uuid))
	if err != nil {
		return "", err
	}
	if len(response.Hits.Hits) == 0 {
		return "", fmt.Errorf("%w: no %q document with id %q", catalog.ErrNotFound, collection, uuid)
	}

	urn, ok := response.Hits.Hits[0].Source["urn"].(string)
	if !ok || urn == "" {
		return "", fmt.Errorf("%w: document with id %q has no urn", catalog.ErrInternal, uuid)
	}
	return urn, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      any   `json:"key"`
			DocCount int64 `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

func (r *searchResponse) sources() []map[string]any {
	sources := make([]map[string]any, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		sources = append(sources, hit.Source)
	}
	return sources
}

func (r *searchResponse) facets() map[string]map[string]int64 {
	facets := make(map[string]map[string]int64, len(r.Aggregations))
	for field, aggregation := range r.Aggregations {
		buckets := make(map[string]int64, len(aggregation.Buckets))
		for _, bucket := range aggregation.Buckets {
			key, ok := bucket.Key.(string)
			if !ok {
				key = fmt.Sprint(bucket.Key)
			}
			buckets[key] = bucket.DocCount
		}
		facets[field] = buckets
	}
	return facets
}

func (s *Store) runSearch(ctx context.Context, collection string, body map[string]any) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding query: %s", catalog.ErrInternal, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(collection),
		s.client.Search.WithBody(bytes.NewReader(payload)),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, transportError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError(res)
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %s", catalog.ErrInternal, err)
	}
	return &response, nil
}

func transportError(err error) error {
	return fmt.Errorf("%w: %s", catalog.ErrBadGateway, err)
}

// apiError normalizes an Elasticsearch error response into the catalog error
// taxonomy.
func apiError(res *esapi.Response) error {
	if res.StatusCode == http.StatusNotFound {
		return catalog.ErrNotFound
	}

	message := res.Status()
	var body struct {
		Error struct {
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error.Reason != "" {
		message = body.Error.Reason
	}
	if res.StatusCode >= http.StatusInternalServerError || res.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", catalog.ErrBadGateway, message)
	}
	return fmt.Errorf("%w: %s", catalog.ErrInternal, message)
}
