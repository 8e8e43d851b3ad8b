package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	analytics_mocks "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/config"
	database_mocks "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func toolNames(t *testing.T, s *Neo4jMCPServer) []string {
	t.Helper()
	var names []string
	for _, tool := range s.getEnabledTools() {
		names = append(names, tool.Tool.Name)
	}
	return names
}

func TestAllToolsAreExposed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := &Neo4jMCPServer{
		config:    config.Default(),
		dbService: database_mocks.NewMockService(ctrl),
		anService: analytics_mocks.NewMockService(ctrl),
	}

	assert.ElementsMatch(t, []string{
		"rank-suspicious-nodes",
		"detect-similar-subgraphs",
		"graph-summary",
		"ingest-events",
	}, toolNames(t, server))
}

func TestReadOnlyModeFiltersWriteTools(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Default()
	cfg.ReadOnly = true

	server := &Neo4jMCPServer{
		config:    cfg,
		dbService: database_mocks.NewMockService(ctrl),
		anService: analytics_mocks.NewMockService(ctrl),
	}

	names := toolNames(t, server)
	assert.ElementsMatch(t, []string{"rank-suspicious-nodes", "detect-similar-subgraphs", "graph-summary"}, names)
	assert.NotContains(t, names, "ingest-events")
}

func TestPlaybooksAreExposedAsReadOnlyTools(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Default()
	cfg.ReadOnly = true
	server := &Neo4jMCPServer{
		config:    cfg,
		dbService: database_mocks.NewMockService(ctrl),
		anService: analytics_mocks.NewMockService(ctrl),
	}
	require.NoError(t, server.loadPlaybooks())

	names := toolNames(t, server)
	assert.Contains(t, names, "investigate-shared-device")
	assert.Contains(t, names, "compare-matched-pair")
	assert.Contains(t, names, "interaction-graph-model")
	assert.NotContains(t, names, "ingest-events")
}

func TestPlaybookDirOverridesEmbeddedPlaybooks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fraud"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fraud", "custom.yaml"), []byte("name: custom-check\ndescription: Custom guidance.\n"), 0o600))

	cfg := config.Default()
	cfg.PlaybookDir = dir
	server := &Neo4jMCPServer{config: cfg}
	require.NoError(t, server.loadPlaybooks())

	names := toolNames(t, server)
	assert.Contains(t, names, "custom-check")
	assert.NotContains(t, names, "investigate-shared-device")

	t.Run("empty directory fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.PlaybookDir = t.TempDir()
		assert.Error(t, (&Neo4jMCPServer{config: cfg}).loadPlaybooks())
	})
}

func TestToolDefinitionsMatchAnnotations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := &Neo4jMCPServer{
		config:    config.Default(),
		dbService: database_mocks.NewMockService(ctrl),
		anService: analytics_mocks.NewMockService(ctrl),
	}

	require.NoError(t, server.loadPlaybooks())

	for _, toolDef := range server.getAllToolsDefs(&tools.ToolDependencies{}) {
		tool := toolDef.definition.Tool
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			assert.NotNil(t, toolDef.definition.Handler)
			require.NotNil(t, tool.Annotations.ReadOnlyHint)
			assert.Equal(t, toolDef.readonly, *tool.Annotations.ReadOnlyHint)
		})
	}
}

func TestToolDependenciesFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.Threshold = 0.9
	cfg.Detection.MaxSimNodes = 7
	cfg.Mapping.NodeLabel = "Account"
	cfg.IngestBatchSize = 50

	deps := (&Neo4jMCPServer{config: cfg}).toolDependencies()
	assert.Equal(t, 0.9, deps.Pipeline.Similarity.Threshold)
	assert.Equal(t, 7, deps.Pipeline.MaxSimNodes)
	assert.Equal(t, "Account", deps.Mapping.NodeLabel)
	assert.Equal(t, 50, deps.IngestBatchSize)
}

func TestFilterWriteTools(t *testing.T) {
	defs := []ToolDefinition{
		{category: fraudCategory, readonly: true},
		{category: dataCategory, readonly: false},
	}
	filtered := filterWriteTools(defs)
	require.Len(t, filtered, 1)
	assert.Equal(t, fraudCategory, filtered[0].category)
	assert.Equal(t, "fraud", filtered[0].category.String())
	assert.Equal(t, "playbook", playbookCategory.String())
}

func TestInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("registers tools after verifying connectivity", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		anService := analytics_mocks.NewMockService(ctrl)
		anService.EXPECT().NewStartupEvent(gomock.Any())
		anService.EXPECT().EmitEvent(gomock.Any())

		s := NewNeo4jMCPServer("test", config.Default(), mockDB, anService, nil)
		require.NoError(t, s.initialize(context.Background()))
	})

	t.Run("fails when the database is unreachable", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(errors.New("connection refused"))

		s := NewNeo4jMCPServer("test", config.Default(), mockDB, analytics_mocks.NewMockService(ctrl), nil)
		err := s.initialize(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connectivity")
	})

	t.Run("stop closes the database", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().Close(gomock.Any()).Return(nil)

		s := NewNeo4jMCPServer("test", config.Default(), mockDB, analytics_mocks.NewMockService(ctrl), nil)
		assert.NoError(t, s.Stop(context.Background()))
	})
}
