package graph_summary

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

const ToolName = "graph-summary"

type GraphSummaryInput struct {
	GraphMapping *graph.Mapping `json:"graphMapping,omitempty" jsonschema:"description=Optional override of the node label, relationship type and property names holding the interaction graph"`
}

// Spec returns the MCP tool specification for summarising the interaction graph
func Spec() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(`Summarises the interaction graph: how many users, devices and IP addresses it holds and how many interactions of each type connect them.

**When to use this tool:**
- Checking that interaction data has been loaded before ranking or detection
- Confirming the graph mapping points at the right label and relationship type

**Returns:**
- Node counts per category and relationship counts per interaction type, as JSON rows`),
		mcp.WithInputSchema[GraphSummaryInput](),
		mcp.WithTitleAnnotation("Graph Summary"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
