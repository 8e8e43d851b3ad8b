package similarity

import (
	"errors"
	"fmt"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

// DefaultRadius is the hop distance used when callers do not choose one.
const DefaultRadius = 2

var ErrInvalidRadius = errors.New("radius must be a non-negative integer")

// Neighborhood is the ego-subgraph induced by every node within Radius hops of Center.
type Neighborhood struct {
	Center string
	Radius int
	// Nodes lists members in BFS discovery order; Nodes[0] is always Center.
	Nodes     []string
	Distances map[string]int
	// Categories maps each member to its category label, "" when the node has none.
	Categories map[string]string
	Edges      []graph.Edge
}

// Size returns the number of member nodes.
func (n *Neighborhood) Size() int { return len(n.Nodes) }

func (n *Neighborhood) Contains(id string) bool {
	_, ok := n.Distances[id]
	return ok
}

type bfsEntry struct {
	nodeID string
	hop    int
}

// Extract returns the ego-subgraph of node: all nodes at shortest-path distance <= radius
// and every edge of g whose endpoints are both members. g is never modified.
func Extract(g graph.Graph, node string, radius int) (*Neighborhood, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidRadius, radius)
	}
	if !g.HasNode(node) {
		return nil, &graph.NodeNotFoundError{NodeID: node}
	}

	distances := map[string]int{node: 0}
	order := []string{node}
	queue := []bfsEntry{{nodeID: node, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= radius {
			continue
		}

		neighbors, err := g.Neighbors(current.nodeID)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", current.nodeID, err)
		}
		for _, neighborID := range neighbors {
			if _, seen := distances[neighborID]; seen {
				continue
			}
			distances[neighborID] = current.hop + 1
			order = append(order, neighborID)
			queue = append(queue, bfsEntry{nodeID: neighborID, hop: current.hop + 1})
		}
	}

	categories := make(map[string]string, len(order))
	var edges []graph.Edge
	for _, id := range order {
		category, _ := g.NodeCategory(id)
		categories[id] = category

		neighbors, err := g.Neighbors(id)
		if err != nil {
			return nil, fmt.Errorf("failed to collect edges of %q: %w", id, err)
		}
		for _, neighborID := range neighbors {
			// each undirected edge is recorded once, from its smaller endpoint
			if id >= neighborID {
				continue
			}
			if _, member := distances[neighborID]; !member {
				continue
			}
			interactionType, _ := g.EdgeType(id, neighborID)
			edges = append(edges, graph.Edge{A: id, B: neighborID, Type: interactionType})
		}
	}

	return &Neighborhood{
		Center:     node,
		Radius:     radius,
		Nodes:      order,
		Distances:  distances,
		Categories: categories,
		Edges:      edges,
	}, nil
}
