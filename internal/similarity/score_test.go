package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]int
		want float64
	}{
		{name: "both empty", a: map[string]int{}, b: map[string]int{}, want: 0.0},
		{name: "one empty", a: map[string]int{"x": 1}, b: map[string]int{}, want: 0.0},
		{name: "identical", a: map[string]int{"x": 1, "y": 2}, b: map[string]int{"x": 5, "y": 1}, want: 1.0},
		{name: "disjoint", a: map[string]int{"x": 1}, b: map[string]int{"y": 1}, want: 0.0},
		{name: "one third", a: map[string]int{"A": 1, "B": 1}, b: map[string]int{"A": 1, "C": 1}, want: 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, Jaccard(tt.b, tt.a), 1e-12)
		})
	}
}

func TestCompare_CountsAreIgnored(t *testing.T) {
	a := Signature{
		Categories: Histogram{"user": 1, "device": 50},
		EdgeTypes:  Histogram{"login": 100},
		Members:    map[string]struct{}{"x": {}},
	}
	b := Signature{
		Categories: Histogram{"user": 7, "device": 1},
		EdgeTypes:  Histogram{"login": 1},
		Members:    map[string]struct{}{"y": {}},
	}

	c := Compare(a, b)
	assert.Equal(t, 1.0, c.CategorySimilarity)
	assert.Equal(t, 1.0, c.EdgeTypeSimilarity)
	assert.Equal(t, 0.0, c.NodeOverlapSimilarity)
	assert.Equal(t, 0.6667, c.Score)
}

func TestScore_ScenarioLoginFanOut(t *testing.T) {
	g := loginTriangleGraph(t)

	nb, err := Extract(g, "B", 1)
	require.NoError(t, err)
	nc, err := Extract(g, "C", 1)
	require.NoError(t, err)

	c := Compare(BuildSignature(nb), BuildSignature(nc))
	assert.Equal(t, 1.0, c.CategorySimilarity)
	assert.Equal(t, 1.0, c.EdgeTypeSimilarity)
	assert.InDelta(t, 1.0/3, c.NodeOverlapSimilarity, 1e-12)
	assert.Equal(t, 0.7778, c.Score)
}

func TestScore_IsolatedNodesWithDisjointLabels(t *testing.T) {
	a := Signature{Categories: Histogram{"user": 1}, EdgeTypes: Histogram{}, Members: map[string]struct{}{"a": {}}}
	b := Signature{Categories: Histogram{"ip": 1}, EdgeTypes: Histogram{}, Members: map[string]struct{}{"b": {}}}

	assert.Equal(t, 0.0, Score(a, b))
}

func TestScore_RadiusZeroSameNode(t *testing.T) {
	g := loginTriangleGraph(t)
	n, err := Extract(g, "A", 0)
	require.NoError(t, err)
	sig := BuildSignature(n)

	// no edges on either side: the edge measure is 0 by the empty-set convention
	assert.Equal(t, 0.6667, Score(sig, sig))
}

func TestScore_SelfSimilarity(t *testing.T) {
	g := loginTriangleGraph(t)
	for _, node := range []string{"A", "B", "C"} {
		n, err := Extract(g, node, 2)
		require.NoError(t, err)
		sig := BuildSignature(n)
		assert.Equal(t, 1.0, Score(sig, sig), node)
	}
}
