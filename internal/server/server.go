package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/docs"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/config"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/playbooks"
)

const serverName = "neo4j-mcp-fraud-rings"

// Neo4jMCPServer serves the fraud-ring tools over MCP.
type Neo4jMCPServer struct {
	MCPServer *server.MCPServer
	config    *config.Config
	dbService database.Service
	anService analytics.Service
	recorder  pipeline.Recorder
	playbooks *playbooks.Registry
	version   string
}

func NewNeo4jMCPServer(version string, cfg *config.Config, dbService database.Service, anService analytics.Service, recorder pipeline.Recorder) *Neo4jMCPServer {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(docs.ServerInstructions),
	)

	return &Neo4jMCPServer{
		MCPServer: mcpServer,
		config:    cfg,
		dbService: dbService,
		anService: anService,
		recorder:  recorder,
		version:   version,
	}
}

// Start verifies the database, registers tools and serves MCP over stdio until stdin closes.
func (s *Neo4jMCPServer) Start(ctx context.Context) error {
	if err := s.initialize(ctx); err != nil {
		return err
	}
	slog.Info("starting MCP server over stdio", "name", serverName, "version", s.version)
	return server.ServeStdio(s.MCPServer)
}

func (s *Neo4jMCPServer) initialize(ctx context.Context) error {
	if err := s.dbService.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify database connectivity: %w", err)
	}

	readOnly := s.config != nil && s.config.ReadOnly
	s.anService.EmitEvent(s.anService.NewStartupEvent(analytics.StartupEventInfo{
		Version:  s.version,
		ReadOnly: readOnly,
	}))

	if err := s.loadPlaybooks(); err != nil {
		return fmt.Errorf("failed to load playbooks: %w", err)
	}
	if err := s.registerTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	return nil
}

// Stop releases the database driver.
func (s *Neo4jMCPServer) Stop(ctx context.Context) error {
	return s.dbService.Close(ctx)
}
