package graph_summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Handler returns the tool handler function for the graph summary
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGraphSummary(ctx, request, deps)
	}
}

func handleGraphSummary(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent(ToolName))

	var args GraphSummaryInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	mapping := deps.MappingOrDefault(args.GraphMapping)
	if err := mapping.Validate(); err != nil {
		slog.Error("invalid graph mapping", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	database := deps.DBService.GetDatabaseName()
	slog.Info("summarising interaction graph", "database", database, "nodeLabel", mapping.NodeLabel)

	categoryRecords, err := deps.DBService.ExecuteReadQuery(ctx, mapping.CategoryCountQuery(), nil)
	if err != nil {
		slog.Error("failed to count nodes per category", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(categoryRecords) == 0 {
		slog.Info("interaction graph is empty", "database", database)
		return mcp.NewToolResultText(fmt.Sprintf(
			"The Neo4j database '%s' has no %s nodes. Load interaction data with ingest-events first.",
			database, mapping.NodeLabel)), nil
	}

	typeRecords, err := deps.DBService.ExecuteReadQuery(ctx, mapping.TypeCountQuery(), nil)
	if err != nil {
		slog.Error("failed to count relationships per type", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	categories, err := deps.DBService.Neo4jRecordsToJSON(categoryRecords)
	if err != nil {
		slog.Error("failed to format category counts", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	types, err := deps.DBService.Neo4jRecordsToJSON(typeRecords)
	if err != nil {
		slog.Error("failed to format type counts", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := fmt.Sprintf("# Interaction graph in '%s'\n\n## Nodes by %s\n```json\n%s\n```\n\n## Relationships by %s\n```json\n%s\n```\n",
		database, mapping.CategoryProperty, categories, mapping.TypeProperty, types)
	return mcp.NewToolResultText(summary), nil
}
