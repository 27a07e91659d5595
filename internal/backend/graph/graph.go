// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/logger"
)

var _ catalog.LineageStore = &Graph{}

// Cypher cannot parameterize labels and relationship types, they end up
// interpolated into the query. Every name is validated against these
// patterns first.
var (
	relationNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	labelNamePattern    = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
)

// bootstrapCypher holds the uniqueness constraints of the lineage graph.
var bootstrapCypher = []string{
	"CREATE CONSTRAINT guide_urn_unique IF NOT EXISTS FOR (g:Guide) REQUIRE g.urn IS UNIQUE",
	"CREATE CONSTRAINT recipe_urn_unique IF NOT EXISTS FOR (r:Recipe) REQUIRE r.urn IS UNIQUE",
	"CREATE CONSTRAINT policy_urn_unique IF NOT EXISTS FOR (p:Policy) REQUIRE p.urn IS UNIQUE",
}

const relationsCypher = `MATCH (a {urn: $urn})-[r]->(b)
RETURN a.urn AS from_urn, type(r) AS relation, b.urn AS to_urn
UNION
MATCH (a)-[r]->(b {urn: $urn})
RETURN a.urn AS from_urn, type(r) AS relation, b.urn AS to_urn`

// Graph implements catalog.LineageStore on a Neo4j database.
type Graph struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewGraphFromEnv connects to the graph database configured by the NEO4J_*
// environment variables. It returns nil without error when NEO4J_URI is
// emptied, the catalog then runs without lineage.
func NewGraphFromEnv() (*Graph, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}

	auth := neo4j.NoAuth()
	if config.Password != "" {
		auth = neo4j.BasicAuth(config.Username, config.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(config.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("building neo4j driver: %w", err)
	}
	return &Graph{driver: driver, database: config.Database}, nil
}

// Verify checks connectivity with the graph database.
func (g *Graph) Verify(ctx context.Context) error {
	if err := g.driver.VerifyConnectivity(ctx); err != nil {
		return graphError(err)
	}
	return nil
}

// Close releases the driver and its connection pool.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// Bootstrap applies the urn uniqueness constraints. It is idempotent.
func (g *Graph) Bootstrap(ctx context.Context) error {
	for _, query := range bootstrapCypher {
		if err := g.write(ctx, query, nil); err != nil {
			return fmt.Errorf("applying graph constraint: %w", err)
		}
	}
	logger.FromContext(ctx).Info("applied lineage graph constraints", "constraints", len(bootstrapCypher))
	return nil
}

// MergeNode implements catalog.LineageStore. Nodes merge on their urn so a
// title change never collides with the uniqueness constraint.
func (g *Graph) MergeNode(ctx context.Context, label, urn, title string) error {
	if !labelNamePattern.MatchString(label) {
		return fmt.Errorf("%w: invalid node label %q", catalog.ErrInvalidData, label)
	}

	query := fmt.Sprintf("MERGE (n:%s {urn: $urn}) SET n.title = $title", label)
	return g.write(ctx, query, map[string]any{"urn": urn, "title": title})
}

// MergeRelation implements catalog.LineageStore.
func (g *Graph) MergeRelation(ctx context.Context, fromURN, toURN, relation string) error {
	if !relationNamePattern.MatchString(relation) {
		return fmt.Errorf("%w: invalid relation name %q", catalog.ErrInvalidData, relation)
	}
	return g.write(ctx, mergeRelationCypher(relation), map[string]any{"from": fromURN, "to": toURN})
}

// Relations implements catalog.LineageStore with a union over outgoing and
// incoming edges.
func (g *Graph) Relations(ctx context.Context, urn string) ([]catalog.Relation, error) {
	result, err := neo4j.ExecuteQuery(ctx, g.driver, relationsCypher,
		map[string]any{"urn": urn},
		neo4j.EagerResultTransformer,
		g.options(neo4j.ExecuteQueryWithReadersRouting())...,
	)
	if err != nil {
		return nil, graphError(err)
	}

	relations := make([]catalog.Relation, 0, len(result.Records))
	for _, record := range result.Records {
		fromURN, _, err := neo4j.GetRecordValue[string](record, "from_urn")
		if err != nil {
			return nil, fmt.Errorf("%w: decoding relation: %s", catalog.ErrInternal, err)
		}
		toURN, _, err := neo4j.GetRecordValue[string](record, "to_urn")
		if err != nil {
			return nil, fmt.Errorf("%w: decoding relation: %s", catalog.ErrInternal, err)
		}
		relation, _, err := neo4j.GetRecordValue[string](record, "relation")
		if err != nil {
			return nil, fmt.Errorf("%w: decoding relation: %s", catalog.ErrInternal, err)
		}
		relations = append(relations, catalog.Relation{FromURN: fromURN, ToURN: toURN, Relation: relation})
	}
	return relations, nil
}

func (g *Graph) write(ctx context.Context, query string, parameters map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, g.driver, query, parameters,
		neo4j.EagerResultTransformer,
		g.options(neo4j.ExecuteQueryWithWritersRouting())...,
	)
	if err != nil {
		return graphError(err)
	}
	return nil
}

func (g *Graph) options(routing neo4j.ExecuteQueryConfigurationOption) []neo4j.ExecuteQueryConfigurationOption {
	options := []neo4j.ExecuteQueryConfigurationOption{routing}
	if g.database != "" {
		options = append(options, neo4j.ExecuteQueryWithDatabase(g.database))
	}
	return options
}

// mergeRelationCypher merges both endpoints on their urn and the edge
// between them. Endpoints stay label free so edges can span entity types.
func mergeRelationCypher(relation string) string {
	return fmt.Sprintf("MERGE (a {urn: $from}) MERGE (b {urn: $to}) MERGE (a)-[r:%s]->(b)", relation)
}

func graphError(err error) error {
	return fmt.Errorf("%w: %s", catalog.ErrBadGateway, err)
}
