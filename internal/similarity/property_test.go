package similarity

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

// randomGraph builds a graph over nodes v0..v(n-1) from an edge list encoded as index pairs.
func randomGraph(n int, edges []int) *graph.Store {
	g := graph.NewStore()
	categories := []string{"user", "device", "ip", ""}
	types := []string{"login", "payment", "access", ""}
	for i := 0; i < n; i++ {
		_ = g.AddNode(fmt.Sprintf("v%d", i), categories[i%len(categories)])
	}
	for i := 0; i+1 < len(edges); i += 2 {
		a, b := edges[i]%n, edges[i+1]%n
		if a == b {
			continue
		}
		_ = g.AddEdge(fmt.Sprintf("v%d", a), fmt.Sprintf("v%d", b), types[(a+b)%len(types)])
	}
	return g
}

func signatureOf(g graph.Graph, node string, radius int) Signature {
	n, err := Extract(g, node, radius)
	if err != nil {
		panic(err)
	}
	return BuildSignature(n)
}

func TestSimilarityProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	const nodes = 12
	edgeList := gen.SliceOfN(30, gen.IntRange(0, nodes-1))

	properties.Property("score is symmetric", prop.ForAll(
		func(edges []int, a, b, radius int) bool {
			g := randomGraph(nodes, edges)
			sa := signatureOf(g, fmt.Sprintf("v%d", a), radius)
			sb := signatureOf(g, fmt.Sprintf("v%d", b), radius)
			return Score(sa, sb) == Score(sb, sa)
		},
		edgeList, gen.IntRange(0, nodes-1), gen.IntRange(0, nodes-1), gen.IntRange(0, 3),
	))

	properties.Property("score lies in [0, 1]", prop.ForAll(
		func(edges []int, a, b, radius int) bool {
			g := randomGraph(nodes, edges)
			s := Score(signatureOf(g, fmt.Sprintf("v%d", a), radius), signatureOf(g, fmt.Sprintf("v%d", b), radius))
			return s >= 0 && s <= 1
		},
		edgeList, gen.IntRange(0, nodes-1), gen.IntRange(0, nodes-1), gen.IntRange(0, 3),
	))

	properties.Property("self-similarity is 1 whenever the neighborhood has an edge", prop.ForAll(
		func(edges []int, a, radius int) bool {
			g := randomGraph(nodes, edges)
			sig := signatureOf(g, fmt.Sprintf("v%d", a), radius)
			if len(sig.EdgeTypes) == 0 {
				return true
			}
			return Score(sig, sig) == 1.0
		},
		edgeList, gen.IntRange(0, nodes-1), gen.IntRange(1, 3),
	))

	properties.Property("neighborhood size is monotonic in radius", prop.ForAll(
		func(edges []int, a, radius int) bool {
			g := randomGraph(nodes, edges)
			node := fmt.Sprintf("v%d", a)
			small, err := Extract(g, node, radius)
			if err != nil {
				return false
			}
			large, err := Extract(g, node, radius+1)
			if err != nil {
				return false
			}
			return large.Size() >= small.Size()
		},
		edgeList, gen.IntRange(0, nodes-1), gen.IntRange(0, 4),
	))

	properties.Property("matcher evaluates k*(k-1)/2 pairs and filters by threshold", prop.ForAll(
		func(edges []int, k int, threshold float64) bool {
			g := randomGraph(nodes, edges)
			candidates := make([]string, 0, k)
			for i := 0; i < k; i++ {
				candidates = append(candidates, fmt.Sprintf("v%d", i))
			}
			result, err := FindSimilar(g, candidates, Options{Radius: 2, Threshold: threshold})
			if err != nil {
				return false
			}
			if result.PairsEvaluated != k*(k-1)/2 {
				return false
			}
			for _, p := range result.Pairs {
				if p.Score < threshold {
					return false
				}
			}
			return true
		},
		edgeList, gen.IntRange(0, nodes), gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
