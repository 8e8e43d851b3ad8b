package similar_subgraphs

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

const ToolName = "detect-similar-subgraphs"

type DetectSimilarSubgraphsInput struct {
	Candidates   []string       `json:"candidates,omitempty" jsonschema:"description=Optional node IDs to compare. When omitted the highest ranked nodes by PageRank and betweenness are used."`
	Radius       *int           `json:"radius,omitempty" jsonschema:"minimum=0,description=Neighborhood radius in hops around each candidate (default 2)"`
	Threshold    *float64       `json:"threshold,omitempty" jsonschema:"minimum=0,maximum=1,description=Minimum similarity score for a pair to be reported (default 0.75)"`
	MaxSimNodes  int            `json:"maxSimNodes,omitempty" jsonschema:"minimum=1,description=Maximum number of candidates compared pairwise (default 20)"`
	TopK         *int           `json:"topK,omitempty" jsonschema:"minimum=0,description=Number of ranked nodes to keep before capping (default 10, 0 keeps all)"`
	FailFast     *bool          `json:"failFast,omitempty" jsonschema:"description=Fail the whole call when a candidate is missing instead of skipping it"`
	GraphMapping *graph.Mapping `json:"graphMapping,omitempty" jsonschema:"description=Optional override of the node label, relationship type and property names holding the interaction graph"`
}

type DetectSimilarSubgraphsResponse struct {
	Nodes          int                `json:"nodes"`
	Edges          int                `json:"edges"`
	Candidates     []string           `json:"candidates"`
	Pairs          []CandidatePair    `json:"pairs"`
	PairsEvaluated int                `json:"pairsEvaluated"`
	Skipped        []SkippedCandidate `json:"skipped,omitempty"`
	Truncated      int                `json:"truncated,omitempty"`
}

// CandidatePair mirrors similarity.CandidatePair for the tool response.
type CandidatePair struct {
	NodeA                 string  `json:"node_a"`
	NodeB                 string  `json:"node_b"`
	SimilarityScore       float64 `json:"similarity_score"`
	CategorySimilarity    float64 `json:"category_similarity"`
	EdgeTypeSimilarity    float64 `json:"edge_type_similarity"`
	NodeOverlapSimilarity float64 `json:"node_overlap_similarity"`
}

type SkippedCandidate struct {
	NodeID string `json:"node_id"`
	Reason string `json:"reason"`
}

// Spec returns the MCP tool specification for structural similarity detection
func Spec() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(`Finds groups of accounts, devices or IP addresses whose surrounding interaction structure looks alike, a common signature of coordinated fraud rings.

For each candidate node the tool takes the neighborhood within a fixed number of hops and compares every pair of neighborhoods on three measures:
- category overlap: which kinds of nodes (user, device, ip) appear
- interaction overlap: which kinds of interactions (login, payment, access) appear
- node overlap: how many of the same nodes both neighborhoods contain

The similarity score is the mean of the three, between 0 and 1. Pairs at or above the threshold are returned.

**Candidate selection:**
- Pass candidates explicitly to compare specific nodes
- Omit candidates to compare the top ranked nodes by PageRank and betweenness centrality
- At most maxSimNodes candidates are compared; the rest are dropped

**Returns:**
- candidates that were compared and any that were skipped because they do not exist
- matching pairs with their score and the three sub-scores
- the number of pairs evaluated

An empty pair list is a valid result: no neighborhoods were similar enough.`),
		mcp.WithInputSchema[DetectSimilarSubgraphsInput](),
		mcp.WithTitleAnnotation("Detect Similar Subgraphs"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
