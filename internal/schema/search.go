// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package schema

const (
	// DefaultSearchLimit is applied when a search payload omits the limit.
	DefaultSearchLimit = 10
	// MaxSearchLimit caps the page size of a single search request.
	MaxSearchLimit = 100
)

// SearchSpec captures the query options shared by every collection search.
type SearchSpec struct {
	// Q is the free text query. Empty or "*" matches everything.
	Q string `json:"q,omitempty"`
	// Limit is the page size, between 1 and 100.
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	// Offset skips the first n hits for pagination.
	Offset int `json:"offset,omitempty" validate:"min=0"`
	// FL restricts the fields returned for each hit.
	FL []string `json:"fl,omitempty"`
	// FQ holds filter clauses in "field:value" form.
	FQ []string `json:"fq,omitempty" validate:"omitempty,dive,min=1"`
	// Sort orders the hits, e.g. "created_at desc".
	Sort string `json:"sort,omitempty"`
	// Fields lists the keyword fields to build facet aggregations on.
	Fields []string `json:"fields,omitempty"`
}

func (s *SearchSpec) SetDefaults() {
	if s.Limit == 0 {
		s.Limit = DefaultSearchLimit
	}
}
