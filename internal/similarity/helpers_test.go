package similarity

import (
	"testing"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/stretchr/testify/require"
)

// loginTriangleGraph: A(user) - B(device), A - C(device), both "login".
func loginTriangleGraph(t *testing.T) *graph.Store {
	t.Helper()
	g := graph.NewStore()
	require.NoError(t, g.AddNode("A", "user"))
	require.NoError(t, g.AddNode("B", "device"))
	require.NoError(t, g.AddNode("C", "device"))
	require.NoError(t, g.AddEdge("A", "B", "login"))
	require.NoError(t, g.AddEdge("A", "C", "login"))
	return g
}

// chainGraph builds n0 - n1 - ... - n(length-1) with alternating categories.
func chainGraph(t *testing.T, length int) *graph.Store {
	t.Helper()
	g := graph.NewStore()
	categories := []string{"user", "device", "ip"}
	for i := 0; i < length; i++ {
		require.NoError(t, g.AddNode(nodeName(i), categories[i%len(categories)]))
		if i > 0 {
			require.NoError(t, g.AddEdge(nodeName(i-1), nodeName(i), "access"))
		}
	}
	return g
}

func nodeName(i int) string {
	return "n" + string(rune('a'+i%26)) + string(rune('a'+i/26))
}
