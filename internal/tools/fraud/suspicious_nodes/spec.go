package suspicious_nodes

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/ranking"
)

const ToolName = "rank-suspicious-nodes"

type RankSuspiciousNodesInput struct {
	TopK         *int           `json:"topK,omitempty" jsonschema:"minimum=0,description=Number of nodes to return (default 10, 0 returns all)"`
	GraphMapping *graph.Mapping `json:"graphMapping,omitempty" jsonschema:"description=Optional override of the node label, relationship type and property names holding the interaction graph"`
}

type RankSuspiciousNodesResponse struct {
	Nodes  int              `json:"nodes"`
	Edges  int              `json:"edges"`
	Ranked []ranking.Ranked `json:"ranked"`
}

// Spec returns the MCP tool specification for centrality-based node ranking
func Spec() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(`Ranks users, devices and IP addresses in the interaction graph by how central they are, a proxy for how much fraud traffic they could be brokering.

Each node gets a fraud score of 0.6 x PageRank + 0.4 x normalised betweenness centrality. Nodes are returned highest score first, ties ordered by node ID.

**When to use this tool:**
- Finding shared devices or IP addresses that many accounts pass through
- Choosing which nodes to pass to detect-similar-subgraphs

**Returns:**
- node_id, category, pagerank, betweenness and fraud_score for each of the top nodes`),
		mcp.WithInputSchema[RankSuspiciousNodesInput](),
		mcp.WithTitleAnnotation("Rank Suspicious Nodes"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
