package ingest_events

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

const ToolName = "ingest-events"

// MaxGeneratedEvents bounds synthetic generation per call.
const MaxGeneratedEvents = 100000

type GenerateOptions struct {
	Count   int    `json:"count,omitempty" jsonschema:"minimum=1,description=Number of synthetic events to generate (default 200)"`
	Seed    uint64 `json:"seed,omitempty" jsonschema:"description=Random seed; the same seed always produces the same events"`
	Users   int    `json:"users,omitempty" jsonschema:"description=Size of the user pool (default 50)"`
	Devices int    `json:"devices,omitempty" jsonschema:"description=Size of the device pool (default 30)"`
	IPs     int    `json:"ips,omitempty" jsonschema:"description=Size of the IP pool (default 20)"`
}

type IngestEventsInput struct {
	Events       []events.Event   `json:"events,omitempty" jsonschema:"description=Interaction events to store, each with user, device, ip and event fields"`
	Generate     *GenerateOptions `json:"generate,omitempty" jsonschema:"description=Generate synthetic events instead of passing them explicitly"`
	BatchSize    int              `json:"batchSize,omitempty" jsonschema:"minimum=1,description=Events merged per write query (default 500)"`
	GraphMapping *graph.Mapping   `json:"graphMapping,omitempty" jsonschema:"description=Optional override of the node label, relationship type and property names holding the interaction graph"`
}

// Spec returns the MCP tool specification for event ingestion
func Spec() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(`Stores user/device/IP interaction events in Neo4j as an interaction graph.

Each event links a user to a device with a relationship typed by the event (login, payment, access) and the device to its IP address with an access relationship. Nodes and relationships are merged, so ingesting the same events twice does not duplicate them.

Pass events explicitly, or pass generate to create a reproducible synthetic data set for experimentation.

**Returns:**
- number of events written, batches executed and events skipped for missing fields`),
		mcp.WithInputSchema[IngestEventsInput](),
		mcp.WithTitleAnnotation("Ingest Interaction Events"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
