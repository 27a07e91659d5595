// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package elastic

import (
	"strings"

	"github.com/wisefood/data-catalog/internal/schema"
)

// facetBucketSize caps the number of buckets returned per facet field.
const facetBucketSize = 50

// searchBody translates a validated search spec into an Elasticsearch
// request body. Embedding fields never leave the index.
func searchBody(spec schema.SearchSpec, searchFields []string) map[string]any {
	body := map[string]any{
		"from":    spec.Offset,
		"size":    spec.Limit,
		"query":   textQuery(spec.Q, searchFields, spec.FQ),
		"_source": sourceFilter(spec.FL),
	}
	if sort := sortClause(spec.Sort); sort != nil {
		body["sort"] = sort
	}
	if len(spec.Fields) > 0 {
		aggregations := map[string]any{}
		for _, field := range spec.Fields {
			aggregations[field] = map[string]any{
				"terms": map[string]any{"field": field, "size": facetBucketSize},
			}
		}
		body["aggs"] = aggregations
	}
	return body
}

// textQuery builds the query clause: match_all for empty or "*" queries, a
// multi_match over the entity search fields otherwise. Filter queries keep
// their Lucene syntax and are attached as non scoring filter clauses.
func textQuery(q string, searchFields []string, filters []string) map[string]any {
	var query map[string]any
	switch q = strings.TrimSpace(q); q {
	case "", "*":
		query = map[string]any{"match_all": map[string]any{}}
	default:
		match := map[string]any{"query": q}
		if len(searchFields) > 0 {
			match["fields"] = searchFields
		}
		query = map[string]any{"multi_match": match}
	}

	if len(filters) == 0 {
		return query
	}
	filterClauses := make([]map[string]any, 0, len(filters))
	for _, filter := range filters {
		filterClauses = append(filterClauses, map[string]any{
			"query_string": map[string]any{"query": filter},
		})
	}
	return map[string]any{
		"bool": map[string]any{
			"must":   query,
			"filter": filterClauses,
		},
	}
}

func sourceFilter(includes []string) map[string]any {
	filter := map[string]any{
		"excludes": []string{"embedding", "embedding_hint"},
	}
	if len(includes) > 0 {
		filter["includes"] = includes
	}
	return filter
}

// sortClause parses a "field" or "field asc|desc" sort expression. Anything
// else sorts ascending.
func sortClause(expression string) []map[string]any {
	fields := strings.Fields(expression)
	if len(fields) == 0 {
		return nil
	}

	order := "asc"
	if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
		order = "desc"
	}
	return []map[string]any{{fields[0]: map[string]any{"order": order}}}
}

func knnBody(vector []float32, k int) map[string]any {
	return map[string]any{
		"size": k,
		"knn": map[string]any{
			"field":          "embedding",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": k * 10,
		},
		"_source": sourceFilter(nil),
	}
}

func fetchBody(limit, offset int) map[string]any {
	return map[string]any{
		"from":    offset,
		"size":    limit,
		"query":   map[string]any{"match_all": map[string]any{}},
		"_source": sourceFilter(nil),
	}
}

func listIDsBody(limit, offset int) map[string]any {
	return map[string]any{
		"from":    offset,
		"size":    limit,
		"query":   map[string]any{"match_all": map[string]any{}},
		"_source": false,
	}
}

func resolveBody(uuid string) map[string]any {
	return map[string]any{
		"size":    1,
		"query":   map[string]any{"term": map[string]any{"id": uuid}},
		"_source": map[string]any{"includes": []string{"urn"}},
	}
}
