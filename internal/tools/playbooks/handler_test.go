package playbooks_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/mark3labs/mcp-go/mcp"
	analytics "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/tools/playbooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sharedDevicePlaybook = `name: shared-device
description: Check who shares a device.
intent: Use on a hub device.
signals:
  - entity: device
    shared_with: [user]
    anomaly: Many users on one device.
reference_cypher: |
  MATCH (d:{{.NodeLabel}} { {{.IDProperty}}: $hubId })-[:{{.RelationshipType}}]-(u)
  RETURN u.{{.IDProperty}} AS user
parameters:
  - name: hubId
    type: string
    required: true
  - name: limit
    type: integer
    default: 100
follow_up:
  - detect-similar-subgraphs
`

func newRegistry(t *testing.T) *playbooks.Registry {
	t.Helper()
	registry, err := playbooks.NewRegistry(fstest.MapFS{
		"fraud/shared-device.yaml": {Data: []byte(sharedDevicePlaybook)},
		"data/model.yaml":          {Data: []byte("name: model\ndescription: Graph model.\n")},
	})
	require.NoError(t, err)
	return registry
}

func TestRegistry(t *testing.T) {
	registry := newRegistry(t)

	assert.Len(t, registry.Playbooks(), 2)
	assert.Equal(t, []string{"data", "fraud"}, registry.Categories())

	pb, ok := registry.Get("shared-device")
	require.True(t, ok)
	assert.Equal(t, "fraud", pb.Category)

	_, ok = registry.Get("missing")
	assert.False(t, ok)

	serverTools := registry.ServerTools(&tools.ToolDependencies{})
	require.Len(t, serverTools, 2)
	for _, st := range serverTools {
		require.NotNil(t, st.Tool.Annotations.ReadOnlyHint)
		assert.True(t, *st.Tool.Annotations.ReadOnlyHint)
	}
}

func TestNewRegistryEmpty(t *testing.T) {
	_, err := playbooks.NewRegistry(fstest.MapFS{})
	assert.ErrorIs(t, err, playbooks.ErrNoPlaybooks)
}

func TestRender(t *testing.T) {
	pb, ok := newRegistry(t).Get("shared-device")
	require.True(t, ok)

	text, err := playbooks.Render(pb, graph.DefaultMapping())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Check who shares a device."))
	assert.Contains(t, text, "## Intent\nUse on a hub device.")
	assert.Contains(t, text, "- **device**: Many users on one device.")
	assert.Contains(t, text, "Shared with: user")
	assert.Contains(t, text, "MATCH (d:Entity { id: $hubId })-[:INTERACTS]-(u)")
	assert.Contains(t, text, "- `$limit` (integer) [default: 100]")
	assert.Contains(t, text, "- call `detect-similar-subgraphs`")
}

func TestHandlerUsesConfiguredMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pb, ok := newRegistry(t).Get("shared-device")
	require.True(t, ok)

	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("shared-device").Times(1)
	analyticsService.EXPECT().EmitEvent(gomock.Any()).Times(1)

	deps := &tools.ToolDependencies{
		AnalyticsService: analyticsService,
		Mapping: graph.Mapping{
			NodeLabel:        "Account",
			IDProperty:       "uid",
			CategoryProperty: "kind",
			RelationshipType: "USED",
			TypeProperty:     "event",
		},
	}

	result, err := playbooks.Handler(pb, deps)(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := result.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "MATCH (d:Account { uid: $hubId })-[:USED]-(u)")
	assert.Contains(t, text, "RETURN u.uid AS user")
}

func TestHandlerWithoutAnalytics(t *testing.T) {
	pb, ok := newRegistry(t).Get("model")
	require.True(t, ok)

	result, err := playbooks.Handler(pb, &tools.ToolDependencies{})(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
