package tools

import (
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	DBService        database.Service
	AnalyticsService analytics.Service
	// Pipeline holds the configured detection defaults; tool arguments override them per call.
	Pipeline pipeline.Config
	Mapping  graph.Mapping
	// IngestBatchSize is the number of events merged per write query.
	IngestBatchSize int
	Recorder        pipeline.Recorder
}

// MappingOrDefault returns override when it names any field, otherwise the configured mapping.
func (d *ToolDependencies) MappingOrDefault(override *graph.Mapping) graph.Mapping {
	if override != nil && *override != (graph.Mapping{}) {
		return override.WithDefaults()
	}
	return d.Mapping.WithDefaults()
}
