package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Neo4jService implements Service on top of the official driver.
type Neo4jService struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jService opens a driver for uri. Connectivity is not checked until VerifyConnectivity.
func NewNeo4jService(uri, username, password, database string) (*Neo4jService, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return NewNeo4jServiceWithDriver(driver, database), nil
}

// NewNeo4jServiceWithDriver wraps an existing driver; used by integration tests.
func NewNeo4jServiceWithDriver(driver neo4j.DriverWithContext, database string) *Neo4jService {
	return &Neo4jService{driver: driver, database: database}
}

func (s *Neo4jService) VerifyConnectivity(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}
	return nil
}

func (s *Neo4jService) ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return s.execute(ctx, cypher, params, neo4j.ExecuteQueryWithReadersRouting())
}

func (s *Neo4jService) ExecuteWriteQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return s.execute(ctx, cypher, params, neo4j.ExecuteQueryWithWritersRouting())
}

func (s *Neo4jService) execute(ctx context.Context, cypher string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) ([]*neo4j.Record, error) {
	start := time.Now()
	res, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
		routing,
	)
	if err != nil {
		slog.Error("cypher query failed", "database", s.database, "error", err)
		return nil, fmt.Errorf("failed to execute cypher query: %w", err)
	}
	slog.Debug("cypher query completed", "database", s.database, "records", len(res.Records), "duration", time.Since(start))
	return res.Records, nil
}

// Neo4jRecordsToJSON renders records as a JSON array of objects keyed by column name.
// Nodes and relationships are flattened into plain maps.
func (s *Neo4jService) Neo4jRecordsToJSON(records []*neo4j.Record) (string, error) {
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = normalizeValue(record.Values[i])
		}
		rows = append(rows, row)
	}
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	return string(out), nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		props := make(map[string]any, len(val.Props)+2)
		for k, p := range val.Props {
			props[k] = normalizeValue(p)
		}
		props["elementId"] = val.ElementId
		props["labels"] = val.Labels
		return props
	case dbtype.Relationship:
		props := make(map[string]any, len(val.Props)+4)
		for k, p := range val.Props {
			props[k] = normalizeValue(p)
		}
		props["elementId"] = val.ElementId
		props["type"] = val.Type
		props["startElementId"] = val.StartElementId
		props["endElementId"] = val.EndElementId
		return props
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return val
	}
}

func (s *Neo4jService) GetDatabaseName() string {
	return s.database
}

func (s *Neo4jService) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
