package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/data/graph_summary"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/data/ingest_events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/fraud/similar_subgraphs"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/fraud/suspicious_nodes"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/playbooks"
	playbookfiles "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/tools"
)

// registerTools registers all enabled MCP tools and adds them to the provided MCP server.
// Tools are filtered according to the server configuration. When read-only mode is enabled
// (NEO4J_READ_ONLY or Config.ReadOnly) only tools marked read-only are registered.
func (s *Neo4jMCPServer) registerTools() error {
	filteredTools := s.getEnabledTools()
	s.MCPServer.AddTools(filteredTools...)
	return nil
}

type toolFilter func(tools []ToolDefinition) []ToolDefinition

type toolCategory int

const (
	fraudCategory    toolCategory = 0 // Detection and ranking over the interaction graph
	dataCategory     toolCategory = 1 // Loading interaction data
	playbookCategory toolCategory = 2 // Investigation guidance loaded from YAML
)

func (c toolCategory) String() string {
	switch c {
	case fraudCategory:
		return "fraud"
	case dataCategory:
		return "data"
	case playbookCategory:
		return "playbook"
	default:
		return "unknown"
	}
}

type ToolDefinition struct {
	category   toolCategory
	definition server.ServerTool
	readonly   bool
}

func (s *Neo4jMCPServer) getEnabledTools() []server.ServerTool {
	filters := make([]toolFilter, 0)

	// If read-only mode is enabled, expose only tools annotated as read-only.
	if s.config != nil && s.config.ReadOnly {
		filters = append(filters, filterWriteTools)
	}
	toolDefs := s.getAllToolsDefs(s.toolDependencies())

	for _, filter := range filters {
		toolDefs = filter(toolDefs)
	}
	enabledTools := make([]server.ServerTool, 0, len(toolDefs))
	for _, toolDef := range toolDefs {
		slog.Debug("registering tool", "tool", toolDef.definition.Tool.Name, "category", toolDef.category.String())
		enabledTools = append(enabledTools, toolDef.definition)
	}
	return enabledTools
}

func (s *Neo4jMCPServer) toolDependencies() *tools.ToolDependencies {
	deps := &tools.ToolDependencies{
		DBService:        s.dbService,
		AnalyticsService: s.anService,
		Recorder:         s.recorder,
	}
	if s.config != nil {
		deps.Pipeline = s.config.PipelineConfig()
		deps.Mapping = s.config.Mapping
		deps.IngestBatchSize = s.config.IngestBatchSize
	}
	return deps
}

func filterWriteTools(tools []ToolDefinition) []ToolDefinition {
	readOnlyTools := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		if t.readonly {
			readOnlyTools = append(readOnlyTools, t)
		}
	}
	return readOnlyTools
}

// loadPlaybooks reads the investigation playbooks from PlaybookDir, or the embedded set when unset.
func (s *Neo4jMCPServer) loadPlaybooks() error {
	var fsys fs.FS
	if s.config != nil && s.config.PlaybookDir != "" {
		fsys = os.DirFS(s.config.PlaybookDir)
	} else {
		sub, err := fs.Sub(playbookfiles.ConfigFiles, "config")
		if err != nil {
			return fmt.Errorf("failed to open embedded playbooks: %w", err)
		}
		fsys = sub
	}

	registry, err := playbooks.NewRegistry(fsys)
	if err != nil {
		return err
	}
	s.playbooks = registry
	return nil
}

// getAllToolsDefs returns all available tools with their specs and handlers
func (s *Neo4jMCPServer) getAllToolsDefs(deps *tools.ToolDependencies) []ToolDefinition {
	defs := s.builtinToolDefs(deps)
	if s.playbooks != nil {
		for _, st := range s.playbooks.ServerTools(deps) {
			defs = append(defs, ToolDefinition{category: playbookCategory, definition: st, readonly: true})
		}
	}
	return defs
}

func (s *Neo4jMCPServer) builtinToolDefs(deps *tools.ToolDependencies) []ToolDefinition {
	return []ToolDefinition{
		{
			category: fraudCategory,
			definition: server.ServerTool{
				Tool:    suspicious_nodes.Spec(),
				Handler: suspicious_nodes.Handler(deps),
			},
			readonly: true,
		},
		{
			category: fraudCategory,
			definition: server.ServerTool{
				Tool:    similar_subgraphs.Spec(),
				Handler: similar_subgraphs.Handler(deps),
			},
			readonly: true,
		},
		{
			category: dataCategory,
			definition: server.ServerTool{
				Tool:    graph_summary.Spec(),
				Handler: graph_summary.Handler(deps),
			},
			readonly: true,
		},
		{
			category: dataCategory,
			definition: server.ServerTool{
				Tool:    ingest_events.Spec(),
				Handler: ingest_events.Handler(deps),
			},
			readonly: false,
		},
	}
}
