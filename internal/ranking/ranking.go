// Package ranking selects the nodes whose structural position makes them worth a similarity
// comparison: a blend of PageRank and normalised betweenness centrality.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

const (
	DefaultTopK        = 10
	DefaultMaxSimNodes = 20

	DefaultPageRankWeight    = 0.6
	DefaultBetweennessWeight = 0.4

	damping       = 0.85
	tolerance     = 1e-6
	maxIterations = 100

	// scores closer than this are treated as ties and ordered by node ID
	tieResolution = 1e-9
)

var ErrInvalidTopK = errors.New("topK must not be negative")

type Options struct {
	// TopK limits the ranking length; 0 returns every node.
	TopK              int
	PageRankWeight    float64
	BetweennessWeight float64
}

func DefaultOptions() Options {
	return Options{
		TopK:              DefaultTopK,
		PageRankWeight:    DefaultPageRankWeight,
		BetweennessWeight: DefaultBetweennessWeight,
	}
}

// Ranked is one node's centrality breakdown.
type Ranked struct {
	NodeID      string  `json:"node_id"`
	Category    string  `json:"category,omitempty"`
	PageRank    float64 `json:"pagerank"`
	Betweenness float64 `json:"betweenness"`
	Score       float64 `json:"fraud_score"`
}

// Rank scores every node of g and returns them highest first.
func Rank(g graph.Lister, opts Options) ([]Ranked, error) {
	if opts.TopK < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidTopK, opts.TopK)
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return []Ranked{}, nil
	}

	index := make(map[string]int, len(nodes))
	dg := simple.NewDirectedGraph()
	for i, id := range nodes {
		index[id] = i
		dg.AddNode(simple.Node(int64(i)))
	}
	adjacency := make([][]int, len(nodes))
	// undirected edges become a symmetric pair of arcs
	for _, e := range g.Edges() {
		ai, bi := index[e.A], index[e.B]
		adjacency[ai] = append(adjacency[ai], bi)
		adjacency[bi] = append(adjacency[bi], ai)
		a, b := simple.Node(int64(ai)), simple.Node(int64(bi))
		dg.SetEdge(dg.NewEdge(a, b))
		dg.SetEdge(dg.NewEdge(b, a))
	}

	pagerank := pageRank(adjacency, damping, tolerance, maxIterations)
	betweenness := network.Betweenness(dg)

	// betweenness over both arc directions normalised by (n-1)(n-2)
	scale := 0.0
	if n := float64(len(nodes)); n > 2 {
		scale = 1 / ((n - 1) * (n - 2))
	}

	ranked := make([]Ranked, 0, len(nodes))
	for i, id := range nodes {
		pr := pagerank[i]
		bc := betweenness[int64(i)] * scale
		category, _ := g.NodeCategory(id)
		ranked = append(ranked, Ranked{
			NodeID:      id,
			Category:    category,
			PageRank:    pr,
			Betweenness: bc,
			Score:       opts.PageRankWeight*pr + opts.BetweennessWeight*bc,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := quantise(ranked[i].Score), quantise(ranked[j].Score)
		if si != sj {
			return si > sj
		}
		return ranked[i].NodeID < ranked[j].NodeID
	})

	if opts.TopK > 0 && len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}
	return ranked, nil
}

// Candidates returns the IDs of the first maxSimNodes ranked nodes.
// A non-positive cap falls back to DefaultMaxSimNodes.
func Candidates(ranked []Ranked, maxSimNodes int) []string {
	if maxSimNodes <= 0 {
		maxSimNodes = DefaultMaxSimNodes
	}
	n := min(len(ranked), maxSimNodes)
	ids := make([]string, n)
	for i := range n {
		ids[i] = ranked[i].NodeID
	}
	return ids
}

func quantise(v float64) float64 {
	return math.Round(v/tieResolution) * tieResolution
}
