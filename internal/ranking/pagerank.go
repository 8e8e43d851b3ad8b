package ranking

import "math"

// pageRank runs power iteration over an undirected adjacency list starting from the uniform
// distribution. Rank held by isolated nodes is spread evenly over the whole graph.
// It stops once the L1 change drops below n*tol or after maxIter rounds.
func pageRank(adjacency [][]int, damp, tol float64, maxIter int) []float64 {
	n := len(adjacency)
	if n == 0 {
		return nil
	}
	scores := make([]float64, n)
	next := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}

	for iter := 0; iter < maxIter; iter++ {
		dangling := 0.0
		for i, neighbors := range adjacency {
			if len(neighbors) == 0 {
				dangling += scores[i]
			}
		}
		base := (1-damp)/float64(n) + damp*dangling/float64(n)
		for i := range next {
			next[i] = base
		}
		for i, neighbors := range adjacency {
			if len(neighbors) == 0 {
				continue
			}
			share := damp * scores[i] / float64(len(neighbors))
			for _, j := range neighbors {
				next[j] += share
			}
		}

		diff := 0.0
		for i := range scores {
			diff += math.Abs(next[i] - scores[i])
		}
		scores, next = next, scores
		if diff < float64(n)*tol {
			break
		}
	}
	return scores
}
