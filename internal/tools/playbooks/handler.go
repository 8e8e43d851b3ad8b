package playbooks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Handler returns the playbook guidance with its reference Cypher rendered
// against the server's graph mapping.
func Handler(pb *Playbook, deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePlaybook(pb, deps)
	}
}

func handlePlaybook(pb *Playbook, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent(pb.Name))

	slog.Info("playbook requested", "name", pb.Name, "category", pb.Category)

	text, err := Render(pb, deps.MappingOrDefault(nil))
	if err != nil {
		slog.Error("failed to render playbook", "name", pb.Name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// Render builds the markdown guidance for pb with the reference Cypher expanded for mapping.
func Render(pb *Playbook, mapping graph.Mapping) (string, error) {
	var sb strings.Builder
	sb.WriteString(pb.Description)

	if pb.Intent != "" {
		sb.WriteString("\n\n## Intent\n")
		sb.WriteString(strings.TrimSpace(pb.Intent))
	}

	if len(pb.Signals) > 0 {
		sb.WriteString("\n\n## Signals\n")
		for _, s := range pb.Signals {
			fmt.Fprintf(&sb, "- **%s**: %s\n", s.Entity, s.Anomaly)
			if len(s.SharedWith) > 0 {
				fmt.Fprintf(&sb, "  Shared with: %s\n", strings.Join(s.SharedWith, ", "))
			}
		}
	}

	if pb.ReferenceCypher != "" {
		tmpl, err := parseCypher(pb.Name, pb.ReferenceCypher)
		if err != nil {
			return "", fmt.Errorf("failed to parse reference cypher for %s: %w", pb.Name, err)
		}
		var cypher strings.Builder
		if err := tmpl.Execute(&cypher, mapping); err != nil {
			return "", fmt.Errorf("failed to render reference cypher for %s: %w", pb.Name, err)
		}
		sb.WriteString("\n\n## Reference Cypher\n```cypher\n")
		sb.WriteString(strings.TrimSpace(cypher.String()))
		sb.WriteString("\n```\n")
	}

	if len(pb.Parameters) > 0 {
		sb.WriteString("\n\n## Parameters\n")
		for _, p := range pb.Parameters {
			fmt.Fprintf(&sb, "- `$%s` (%s)", p.Name, p.Type)
			if p.Default != nil {
				fmt.Fprintf(&sb, " [default: %v]", p.Default)
			}
			if p.Description != "" {
				fmt.Fprintf(&sb, ": %s", p.Description)
			}
			sb.WriteString("\n")
		}
	}

	if len(pb.FollowUp) > 0 {
		sb.WriteString("\n\n## Next Steps\n")
		for _, name := range pb.FollowUp {
			fmt.Fprintf(&sb, "- call `%s`\n", name)
		}
	}

	return sb.String(), nil
}
