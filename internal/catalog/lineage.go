// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
)

// AddRelation records a directed, named edge between two entities in the
// lineage graph.
func (s *Service) AddRelation(ctx context.Context, fromURN, toURN, relation string) error {
	if s.graph == nil {
		return fmt.Errorf("%w: the lineage graph is not configured", ErrNotAllowed)
	}
	if _, err := TypeOf(fromURN); err != nil {
		return err
	}
	if _, err := TypeOf(toURN); err != nil {
		return err
	}

	if err := s.graph.MergeRelation(ctx, fromURN, toURN, relation); err != nil {
		return fmt.Errorf("recording relation %q: %w", relation, err)
	}
	return nil
}

// Relations returns every lineage edge touching the given entity.
func (s *Service) Relations(ctx context.Context, urn string) ([]Relation, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("%w: the lineage graph is not configured", ErrNotAllowed)
	}
	if _, err := TypeOf(urn); err != nil {
		return nil, err
	}

	relations, err := s.graph.Relations(ctx, urn)
	if err != nil {
		return nil, fmt.Errorf("reading relations of %q: %w", urn, err)
	}
	return relations, nil
}
