package similar_subgraphs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Handler returns the tool handler function for structural similarity detection
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDetectSimilarSubgraphs(ctx, request, deps)
	}
}

func handleDetectSimilarSubgraphs(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	var args DetectSimilarSubgraphsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := runConfig(deps, args)
	mapping := deps.MappingOrDefault(args.GraphMapping)

	slog.Info("detecting similar subgraphs",
		"candidates", len(args.Candidates),
		"radius", cfg.Similarity.Radius,
		"threshold", cfg.Similarity.Threshold,
		"maxSimNodes", cfg.MaxSimNodes,
		"topK", cfg.Ranking.TopK,
		"nodeLabel", mapping.NodeLabel)

	g, err := graph.Load(ctx, deps.DBService, mapping)
	if err != nil {
		slog.Error("error loading interaction graph", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := pipeline.Run(g, cfg)
	if err != nil {
		slog.Error("error running similarity detection", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	deps.AnalyticsService.EmitEvent(
		deps.AnalyticsService.NewDetectionEvent(analytics.DetectionEventInfo{
			Candidates:     len(report.Result.Compared),
			PairsEvaluated: report.Result.PairsEvaluated,
			PairsMatched:   len(report.Result.Pairs),
			Skipped:        len(report.Result.Skipped),
		}),
	)

	response, err := json.MarshalIndent(newResponse(report), "", "  ")
	if err != nil {
		slog.Error("error formatting detection results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

// runConfig applies the per-call arguments on top of the configured defaults.
func runConfig(deps *tools.ToolDependencies, args DetectSimilarSubgraphsInput) pipeline.Config {
	cfg := deps.Pipeline
	if cfg.MaxSimNodes == 0 {
		cfg = pipeline.DefaultConfig()
	}
	if args.Radius != nil {
		cfg.Similarity.Radius = *args.Radius
	}
	if args.Threshold != nil {
		cfg.Similarity.Threshold = *args.Threshold
	}
	if args.FailFast != nil {
		cfg.Similarity.FailFast = *args.FailFast
	}
	if args.TopK != nil {
		cfg.Ranking.TopK = *args.TopK
	}
	if args.MaxSimNodes != 0 {
		cfg.MaxSimNodes = args.MaxSimNodes
	}
	cfg.Candidates = args.Candidates
	cfg.Recorder = deps.Recorder
	return cfg
}

func newResponse(report *pipeline.Report) DetectSimilarSubgraphsResponse {
	resp := DetectSimilarSubgraphsResponse{
		Nodes:          report.Nodes,
		Edges:          report.Edges,
		Candidates:     report.Result.Compared,
		Pairs:          make([]CandidatePair, 0, len(report.Result.Pairs)),
		PairsEvaluated: report.Result.PairsEvaluated,
		Truncated:      report.Truncated,
	}
	for _, p := range report.Result.Pairs {
		resp.Pairs = append(resp.Pairs, CandidatePair{
			NodeA:                 p.NodeA,
			NodeB:                 p.NodeB,
			SimilarityScore:       p.Score,
			CategorySimilarity:    p.CategorySimilarity,
			EdgeTypeSimilarity:    p.EdgeTypeSimilarity,
			NodeOverlapSimilarity: p.NodeOverlapSimilarity,
		})
	}
	for _, s := range report.Result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedCandidate{NodeID: s.NodeID, Reason: s.Reason})
	}
	return resp
}
