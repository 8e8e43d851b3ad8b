package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

const DefaultBatchSize = 500

// IngestSummary counts what Ingest sent to Neo4j.
type IngestSummary struct {
	Events  int `json:"events"`
	Batches int `json:"batches"`
	Skipped int `json:"skipped"`
}

// IngestQuery returns the UNWIND statement that merges one batch of events into the mapped graph.
func IngestQuery(m graph.Mapping) string {
	return fmt.Sprintf(`UNWIND $events AS e
MERGE (u:%[1]s {%[2]s: e.user}) SET u.%[3]s = '%[6]s'
MERGE (d:%[1]s {%[2]s: e.device}) SET d.%[3]s = '%[7]s'
MERGE (i:%[1]s {%[2]s: e.ip}) SET i.%[3]s = '%[8]s'
MERGE (u)-[ud:%[4]s]-(d) SET ud.%[5]s = e.event
MERGE (d)-[di:%[4]s]-(i) SET di.%[5]s = '%[9]s'`,
		m.NodeLabel, m.IDProperty, m.CategoryProperty, m.RelationshipType, m.TypeProperty,
		CategoryUser, CategoryDevice, CategoryIP, AccessType)
}

// Ingest writes events to Neo4j in batches of batchSize (DefaultBatchSize when non-positive).
// Events that fail validation are skipped and counted. A failing batch stops the ingest; earlier
// batches stay committed.
func Ingest(ctx context.Context, db database.Service, mapping graph.Mapping, events []Event, batchSize int) (*IngestSummary, error) {
	mapping = mapping.WithDefaults()
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	query := IngestQuery(mapping)
	summary := &IngestSummary{}
	batch := make([]map[string]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := db.ExecuteWriteQuery(ctx, query, map[string]any{"events": batch}); err != nil {
			return fmt.Errorf("failed to ingest batch %d: %w", summary.Batches+1, err)
		}
		summary.Batches++
		summary.Events += len(batch)
		slog.Debug("ingested event batch", "batch", summary.Batches, "size", len(batch))
		batch = make([]map[string]any, 0, batchSize)
		return nil
	}

	for _, e := range events {
		if e.Validate() != nil || e.User == e.Device || e.Device == e.IP {
			summary.Skipped++
			continue
		}
		batch = append(batch, map[string]any{
			"user":   e.User,
			"device": e.Device,
			"ip":     e.IP,
			"event":  e.Event,
		})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := flush(); err != nil {
		return summary, err
	}

	slog.Info("events ingested",
		"database", db.GetDatabaseName(),
		"events", summary.Events,
		"batches", summary.Batches,
		"skipped", summary.Skipped)
	return summary, nil
}
