//go:build integration

package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type ToolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// TestContext isolates one test behind a unique node label and removes its nodes on cleanup.
type TestContext struct {
	T       *testing.T
	Ctx     context.Context
	Service *database.Neo4jService
	Mapping graph.Mapping
	Deps    *tools.ToolDependencies
}

func NewTestContext(t *testing.T, driver neo4j.DriverWithContext) *TestContext {
	t.Helper()

	mapping := graph.DefaultMapping()
	mapping.NodeLabel = GetUniqueLabel("Entity")

	service := database.NewNeo4jServiceWithDriver(driver, "neo4j")
	tc := &TestContext{
		T:       t,
		Ctx:     context.Background(),
		Service: service,
		Mapping: mapping,
		Deps: &tools.ToolDependencies{
			DBService:        service,
			AnalyticsService: analytics.NewAnalytics("", nil),
			Pipeline:         pipeline.DefaultConfig(),
			Mapping:          mapping,
			IngestBatchSize:  events.DefaultBatchSize,
		},
	}

	t.Cleanup(func() {
		cypher := fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", mapping.NodeLabel)
		if _, err := service.ExecuteWriteQuery(context.Background(), cypher, nil); err != nil {
			t.Logf("failed to clean up %s: %v", mapping.NodeLabel, err)
		}
	})
	return tc
}

// GetUniqueLabel returns prefix with a random suffix that is still a valid Cypher identifier.
func GetUniqueLabel(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CallTool invokes handler and fails the test on a Go error or a tool error result.
func (tc *TestContext) CallTool(handler ToolHandler, args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()
	res, err := handler(tc.Ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	if err != nil {
		tc.T.Fatalf("tool call failed: %v", err)
	}
	if res.IsError {
		tc.T.Fatalf("tool returned error: %s", TextOf(res))
	}
	return res
}

func (tc *TestContext) ParseJSONResponse(res *mcp.CallToolResult, v any) {
	tc.T.Helper()
	if err := json.Unmarshal([]byte(TextOf(res)), v); err != nil {
		tc.T.Fatalf("failed to parse tool response: %v\n%s", err, TextOf(res))
	}
}

// CountNodes returns how many nodes carry the test's label.
func (tc *TestContext) CountNodes() int64 {
	tc.T.Helper()
	records, err := tc.Service.ExecuteReadQuery(tc.Ctx,
		fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", tc.Mapping.NodeLabel), nil)
	if err != nil {
		tc.T.Fatalf("failed to count nodes: %v", err)
	}
	count, _ := records[0].Get("count")
	return count.(int64)
}

func TextOf(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(mcp.TextContent); ok {
		return text.Text
	}
	return ""
}
