package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNodeNotFound is matched by every *NodeNotFoundError via errors.Is.
	ErrNodeNotFound = errors.New("node not found")
	ErrSelfLoop     = errors.New("self-loop edges are not allowed")
	ErrEmptyNodeID  = errors.New("node id must not be empty")
)

// NodeNotFoundError reports a node identifier that is absent from the graph.
type NodeNotFoundError struct {
	NodeID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found in graph", e.NodeID)
}

func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// Graph is the read-only capability set the similarity engine depends on.
// Implementations must return neighbors in a stable order so that traversals are deterministic.
type Graph interface {
	HasNode(id string) bool
	Neighbors(id string) ([]string, error)
	// NodeCategory returns the category label of a node; ok is false when the node has none.
	NodeCategory(id string) (category string, ok bool)
	// EdgeType returns the interaction type of the edge between a and b; ok is false when
	// the edge carries no label or does not exist.
	EdgeType(a, b string) (interactionType string, ok bool)
}

// Lister extends Graph with whole-graph enumeration, needed by ranking.
type Lister interface {
	Graph
	Nodes() []string
	Edges() []Edge
}

// Edge is an undirected typed edge. A is always the lexicographically smaller endpoint.
type Edge struct {
	A    string `json:"a"`
	B    string `json:"b"`
	Type string `json:"type,omitempty"`
}

// Store is an in-memory undirected typed graph. It is built once and then shared read-only;
// it performs no locking, so callers must not mutate it while analyses are running.
type Store struct {
	categories map[string]string
	adjacency  map[string]map[string]string
	edgeCount  int
}

// NewStore creates an empty graph.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]string),
		adjacency:  make(map[string]map[string]string),
	}
}

// AddNode inserts a node or overwrites the category of an existing one.
// An empty category marks the node as unlabelled.
func (s *Store) AddNode(id, category string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	s.categories[id] = category
	if _, ok := s.adjacency[id]; !ok {
		s.adjacency[id] = make(map[string]string)
	}
	return nil
}

// AddEdge connects a and b, creating unlabelled endpoints when missing.
// Re-adding an existing edge overwrites its interaction type.
func (s *Store) AddEdge(a, b, interactionType string) error {
	if a == "" || b == "" {
		return ErrEmptyNodeID
	}
	if a == b {
		return fmt.Errorf("%w: %q", ErrSelfLoop, a)
	}
	for _, id := range []string{a, b} {
		if _, ok := s.adjacency[id]; !ok {
			if err := s.AddNode(id, ""); err != nil {
				return err
			}
		}
	}
	if _, exists := s.adjacency[a][b]; !exists {
		s.edgeCount++
	}
	s.adjacency[a][b] = interactionType
	s.adjacency[b][a] = interactionType
	return nil
}

func (s *Store) HasNode(id string) bool {
	_, ok := s.adjacency[id]
	return ok
}

// Neighbors returns the adjacent node IDs in ascending order.
func (s *Store) Neighbors(id string) ([]string, error) {
	adj, ok := s.adjacency[id]
	if !ok {
		return nil, &NodeNotFoundError{NodeID: id}
	}
	neighbors := make([]string, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)
	return neighbors, nil
}

func (s *Store) NodeCategory(id string) (string, bool) {
	category, ok := s.categories[id]
	if !ok || category == "" {
		return "", false
	}
	return category, true
}

func (s *Store) EdgeType(a, b string) (string, bool) {
	t, ok := s.adjacency[a][b]
	if !ok || t == "" {
		return "", false
	}
	return t, true
}

// Nodes returns all node IDs in ascending order.
func (s *Store) Nodes() []string {
	nodes := make([]string, 0, len(s.adjacency))
	for id := range s.adjacency {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns every undirected edge once, sorted by (A, B).
func (s *Store) Edges() []Edge {
	edges := make([]Edge, 0, s.edgeCount)
	for a, adj := range s.adjacency {
		for b, t := range adj {
			if a < b {
				edges = append(edges, Edge{A: a, B: b, Type: t})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

func (s *Store) NodeCount() int { return len(s.adjacency) }

func (s *Store) EdgeCount() int { return s.edgeCount }
