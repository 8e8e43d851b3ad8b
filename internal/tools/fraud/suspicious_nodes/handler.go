package suspicious_nodes

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/ranking"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Handler returns the tool handler function for node ranking
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRankSuspiciousNodes(ctx, request, deps)
	}
}

func handleRankSuspiciousNodes(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.AnalyticsService == nil {
		errMessage := "Analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	if deps.DBService == nil {
		errMessage := "Database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(
		deps.AnalyticsService.NewToolsEvent(ToolName),
	)

	var args RankSuspiciousNodesInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := deps.Pipeline.Ranking
	if opts == (ranking.Options{}) {
		opts = ranking.DefaultOptions()
	}
	if args.TopK != nil {
		opts.TopK = *args.TopK
	}
	mapping := deps.MappingOrDefault(args.GraphMapping)

	slog.Info("ranking suspicious nodes", "topK", opts.TopK, "nodeLabel", mapping.NodeLabel)

	g, err := graph.Load(ctx, deps.DBService, mapping)
	if err != nil {
		slog.Error("error loading interaction graph", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if deps.Recorder != nil {
		deps.Recorder.RecordGraph(g.NodeCount(), g.EdgeCount())
	}

	ranked, err := ranking.Rank(g, opts)
	if err != nil {
		slog.Error("error ranking nodes", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.MarshalIndent(RankSuspiciousNodesResponse{
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Ranked: ranked,
	}, "", "  ")
	if err != nil {
		slog.Error("error formatting ranking results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}
