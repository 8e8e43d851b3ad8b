package playbooks

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
)

// Registry holds the loaded playbooks and turns them into MCP guidance tools.
type Registry struct {
	playbooks []*Playbook
}

// NewRegistry loads all playbooks from fsys.
func NewRegistry(fsys fs.FS) (*Registry, error) {
	playbooks, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	if len(playbooks) == 0 {
		return nil, ErrNoPlaybooks
	}
	slog.Info("loaded playbooks", "count", len(playbooks))
	return &Registry{playbooks: playbooks}, nil
}

func (r *Registry) Playbooks() []*Playbook {
	return r.playbooks
}

// Get returns the playbook with the given name.
func (r *Registry) Get(name string) (*Playbook, bool) {
	for _, pb := range r.playbooks {
		if pb.Name == name {
			return pb, true
		}
	}
	return nil, false
}

// Categories returns the distinct playbook categories in sorted order.
func (r *Registry) Categories() []string {
	set := make(map[string]struct{})
	for _, pb := range r.playbooks {
		set[pb.Category] = struct{}{}
	}
	categories := make([]string, 0, len(set))
	for c := range set {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// ServerTools builds one read-only MCP tool per playbook.
func (r *Registry) ServerTools(deps *tools.ToolDependencies) []server.ServerTool {
	serverTools := make([]server.ServerTool, 0, len(r.playbooks))
	for _, pb := range r.playbooks {
		serverTools = append(serverTools, server.ServerTool{
			Tool:    Spec(pb),
			Handler: Handler(pb, deps),
		})
	}
	return serverTools
}

// Spec returns the MCP tool definition for a playbook. The description is rendered
// with the default mapping; the handler renders against the configured one.
func Spec(pb *Playbook) mcp.Tool {
	description, err := Render(pb, graph.DefaultMapping())
	if err != nil {
		description = pb.Description
		slog.Warn("failed to render playbook description", "name", pb.Name, "error", err)
	}
	return mcp.NewTool(pb.Name,
		mcp.WithDescription(description),
		mcp.WithTitleAnnotation(fmt.Sprintf("Playbook: %s", pb.Name)),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}
