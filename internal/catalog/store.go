// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"io"

	"github.com/wisefood/data-catalog/internal/schema"
)

// SearchResult is one page of search hits plus facet counts when requested.
type SearchResult struct {
	Count   int64                       `json:"count"`
	Results []map[string]any            `json:"results"`
	Facets  map[string]map[string]int64 `json:"facets,omitempty"`
}

// Relation is one edge of the lineage graph.
type Relation struct {
	FromURN  string `json:"from_urn"`
	ToURN    string `json:"to_urn"`
	Relation string `json:"relation"`
}

// ObjectInfo describes an object held by the ObjectStore.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// DocumentStore is the persistence contract the catalog needs from its
// document database. Implementations report missing documents with errors
// matching ErrNotFound and unreachable backends with errors matching
// ErrBadGateway.
type DocumentStore interface {
	// Get returns the stored document with the given id.
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	// Index stores a whole document under the given id, replacing any
	// previous version. The write is visible to subsequent reads.
	Index(ctx context.Context, collection, id string, document map[string]any) error
	// Update merges the given fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document.
	Delete(ctx context.Context, collection, id string) error
	// ListIDs pages over the document ids of a collection.
	ListIDs(ctx context.Context, collection string, limit, offset int) ([]string, error)
	// Fetch pages over the documents of a collection.
	Fetch(ctx context.Context, collection string, limit, offset int) ([]map[string]any, error)
	// Search runs a free text query with filters, field selection, sorting
	// and facets over the given fields.
	Search(ctx context.Context, collection string, spec schema.SearchSpec, searchFields []string) (*SearchResult, error)
	// SemanticSearch runs a nearest neighbour query over the embedding
	// vectors of a collection.
	SemanticSearch(ctx context.Context, collection string, vector []float32, k int) (*SearchResult, error)
	// ResolveURN finds the URN of the document whose id field holds the
	// given UUID.
	ResolveURN(ctx context.Context, collection, uuid string) (string, error)
}

// Cache is the entity cache contract. Get reports absent keys with an error
// matching ErrCacheMiss. Cache failures never fail a catalog operation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ObjectStore holds the artifact files.
type ObjectStore interface {
	// Put stores an object of the given size and content type.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Get opens an object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	// Remove deletes an object.
	Remove(ctx context.Context, key string) error
	// Bucket returns the bucket objects are stored in.
	Bucket() string
}

// LineageStore mirrors catalog entities and their relations in a graph.
type LineageStore interface {
	// MergeNode upserts the node of an entity.
	MergeNode(ctx context.Context, label, urn, title string) error
	// MergeRelation upserts a directed, named edge between two entities.
	MergeRelation(ctx context.Context, fromURN, toURN, relation string) error
	// Relations returns every edge touching the given entity.
	Relations(ctx context.Context, urn string) ([]Relation, error)
}
