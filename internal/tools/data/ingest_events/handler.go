package ingest_events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Handler returns the tool handler function for event ingestion
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleIngestEvents(ctx, request, deps)
	}
}

func handleIngestEvents(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	var args IngestEventsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	input, err := resolveEvents(args)
	if err != nil {
		slog.Error("invalid ingest request", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	batchSize := args.BatchSize
	if batchSize <= 0 {
		batchSize = deps.IngestBatchSize
	}
	mapping := deps.MappingOrDefault(args.GraphMapping)

	slog.Info("ingesting events", "events", len(input), "batchSize", batchSize, "nodeLabel", mapping.NodeLabel)

	summary, err := events.Ingest(ctx, deps.DBService, mapping, input, batchSize)
	if err != nil {
		slog.Error("error ingesting events", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		slog.Error("error formatting ingest summary", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

func resolveEvents(args IngestEventsInput) ([]events.Event, error) {
	switch {
	case len(args.Events) > 0 && args.Generate != nil:
		return nil, fmt.Errorf("events and generate are mutually exclusive")
	case len(args.Events) > 0:
		return args.Events, nil
	case args.Generate != nil:
		count := args.Generate.Count
		if count <= 0 {
			count = events.DefaultEventCount
		}
		if count > MaxGeneratedEvents {
			return nil, fmt.Errorf("generate.count must not exceed %d, got %d", MaxGeneratedEvents, count)
		}
		return events.Generate(count, events.GeneratorOptions{
			Users:   args.Generate.Users,
			Devices: args.Generate.Devices,
			IPs:     args.Generate.IPs,
			Seed:    args.Generate.Seed,
		}), nil
	default:
		return nil, fmt.Errorf("either events or generate is required")
	}
}
