package similarity

import "math"

// Comparison breaks a composite score into its three overlap measures.
type Comparison struct {
	CategorySimilarity    float64 `json:"category_similarity"`
	EdgeTypeSimilarity    float64 `json:"edge_type_similarity"`
	NodeOverlapSimilarity float64 `json:"node_overlap_similarity"`
	Score                 float64 `json:"similarity_score"`
}

// Compare scores two signatures. Histograms are compared as label sets: counts are ignored.
// The member-set measure rewards neighborhoods that literally share nodes; it is not a
// comparison of neighbor relationships relative to each center.
func Compare(a, b Signature) Comparison {
	c := Comparison{
		CategorySimilarity:    Jaccard(a.Categories.Labels(), b.Categories.Labels()),
		EdgeTypeSimilarity:    Jaccard(a.EdgeTypes.Labels(), b.EdgeTypes.Labels()),
		NodeOverlapSimilarity: Jaccard(a.Members, b.Members),
	}
	c.Score = round4((c.CategorySimilarity + c.EdgeTypeSimilarity + c.NodeOverlapSimilarity) / 3)
	return c
}

// Score returns the composite similarity of a and b in [0, 1], rounded to 4 decimals.
func Score(a, b Signature) float64 {
	return Compare(a, b).Score
}

// Jaccard returns |A∩B| / |A∪B| over the keys of a and b. Two empty sets score 0.
func Jaccard[K comparable, V any](a, b map[K]V) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	small, big := a, b
	if len(a) > len(b) {
		small, big = b, a
	}
	intersection := 0
	for k := range small {
		if _, ok := big[k]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
