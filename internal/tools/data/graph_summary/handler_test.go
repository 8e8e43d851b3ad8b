package graph_summary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	analytics "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	db "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/data/graph_summary"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGraphSummaryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent(graph_summary.ToolName).AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	formatter := database.NewNeo4jServiceWithDriver(nil, "neo4j")

	t.Run("returns counts per category and type", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		gomock.InOrder(
			mockDB.EXPECT().
				ExecuteReadQuery(gomock.Any(), "MATCH (n:Entity) RETURN n.category AS category, count(*) AS count ORDER BY category", gomock.Nil()).
				Return([]*neo4j.Record{
					{Keys: []string{"category", "count"}, Values: []any{"device", int64(2)}},
					{Keys: []string{"category", "count"}, Values: []any{"user", int64(5)}},
				}, nil),
			mockDB.EXPECT().
				ExecuteReadQuery(gomock.Any(), "MATCH (:Entity)-[r:INTERACTS]->(:Entity) RETURN r.type AS type, count(*) AS count ORDER BY type", gomock.Nil()).
				Return([]*neo4j.Record{
					{Keys: []string{"type", "count"}, Values: []any{"login", int64(5)}},
				}, nil),
		)
		mockDB.EXPECT().Neo4jRecordsToJSON(gomock.Any()).DoAndReturn(formatter.Neo4jRecordsToJSON).Times(2)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := graph_summary.Handler(deps)(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := result.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, "# Interaction graph in 'neo4j'")
		assert.Contains(t, text, `"category": "user"`)
		assert.Contains(t, text, `"count": 5`)
		assert.Contains(t, text, `"type": "login"`)
	})

	t.Run("empty graph suggests ingesting data", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := graph_summary.Handler(deps)(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, result.Content[0].(mcp.TextContent).Text, "ingest-events")
	})

	t.Run("query failure is a tool error", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := graph_summary.Handler(deps)(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("unsafe mapping override is rejected", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := graph_summary.Handler(deps)(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Arguments: map[string]any{
				"graphMapping": map[string]any{"nodeLabel": "Entity) DETACH DELETE n //"},
			}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("nil database service", func(t *testing.T) {
		deps := &tools.ToolDependencies{AnalyticsService: analyticsService}
		result, err := graph_summary.Handler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
