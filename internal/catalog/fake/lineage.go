// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"context"
	"testing"

	"github.com/wisefood/data-catalog/internal/catalog"
)

var _ catalog.LineageStore = &LineageStore{}

// Node is one recorded graph node upsert.
type Node struct {
	Label string
	URN   string
	Title string
}

// LineageStore records graph writes in memory.
type LineageStore struct {
	tb testing.TB

	Nodes []Node
	Edges []catalog.Relation

	// Err fails every call when set.
	Err error
}

func NewLineageStore(tb testing.TB) *LineageStore {
	tb.Helper()
	return &LineageStore{tb: tb}
}

func (s *LineageStore) MergeNode(_ context.Context, label, urn, title string) error {
	s.tb.Helper()
	if s.Err != nil {
		return s.Err
	}

	s.Nodes = append(s.Nodes, Node{Label: label, URN: urn, Title: title})
	return nil
}

func (s *LineageStore) MergeRelation(_ context.Context, fromURN, toURN, relation string) error {
	s.tb.Helper()
	if s.Err != nil {
		return s.Err
	}

	s.Edges = append(s.Edges, catalog.Relation{FromURN: fromURN, ToURN: toURN, Relation: relation})
	return nil
}

func (s *LineageStore) Relations(_ context.Context, urn string) ([]catalog.Relation, error) {
	s.tb.Helper()
	if s.Err != nil {
		return nil, s.Err
	}

	var relations []catalog.Relation
	for _, edge := range s.Edges {
		if edge.FromURN == urn || edge.ToURN == urn {
			relations = append(relations, edge)
		}
	}
	return relations, nil
}
