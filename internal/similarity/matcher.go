package similarity

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

// DefaultThreshold is the minimum composite score reported when callers do not choose one.
const DefaultThreshold = 0.75

var ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

// Options configures FindSimilar. Capping the candidate count is the caller's job.
type Options struct {
	Radius    int
	Threshold float64
	// FailFast aborts the run on the first candidate missing from the graph instead of
	// skipping it.
	FailFast bool
}

func DefaultOptions() Options {
	return Options{
		Radius:    DefaultRadius,
		Threshold: DefaultThreshold,
	}
}

func (o Options) Validate() error {
	if o.Radius < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidRadius, o.Radius)
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidThreshold, o.Threshold)
	}
	return nil
}

// CandidatePair is a pair of candidates whose neighborhoods scored at or above the threshold.
type CandidatePair struct {
	NodeA string `json:"node_a"`
	NodeB string `json:"node_b"`
	Comparison
}

// SkippedCandidate records a candidate that was excluded from comparison.
type SkippedCandidate struct {
	NodeID string `json:"node_id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Result is the outcome of one matching run.
type Result struct {
	// Pairs are in candidate enumeration order, not sorted by score.
	Pairs          []CandidatePair    `json:"pairs"`
	Compared       []string           `json:"compared"`
	Skipped        []SkippedCandidate `json:"skipped,omitempty"`
	PairsEvaluated int                `json:"pairs_evaluated"`
	Duration       time.Duration      `json:"-"`
}

// FindSimilar scores every unordered pair of candidates and keeps those scoring >= opts.Threshold.
// Each candidate's neighborhood is extracted once. Duplicate candidate IDs are collapsed onto their
// first occurrence. Candidates absent from g are skipped and reported unless opts.FailFast is set.
func FindSimilar(g graph.Graph, candidates []string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := &Result{
		Pairs:    make([]CandidatePair, 0),
		Compared: make([]string, 0, len(candidates)),
	}
	signatures := make([]Signature, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		neighborhood, err := Extract(g, candidate, opts.Radius)
		if err != nil {
			if opts.FailFast {
				return nil, fmt.Errorf("failed to extract neighborhood of candidate %q: %w", candidate, err)
			}
			slog.Warn("skipping candidate", "candidate", candidate, "error", err)
			result.Skipped = append(result.Skipped, SkippedCandidate{
				NodeID: candidate,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}
		result.Compared = append(result.Compared, candidate)
		signatures = append(signatures, BuildSignature(neighborhood))
	}

	for i := 0; i < len(signatures); i++ {
		for j := i + 1; j < len(signatures); j++ {
			result.PairsEvaluated++
			c := Compare(signatures[i], signatures[j])
			if c.Score >= opts.Threshold {
				result.Pairs = append(result.Pairs, CandidatePair{
					NodeA:      result.Compared[i],
					NodeB:      result.Compared[j],
					Comparison: c,
				})
			}
		}
	}

	result.Duration = time.Since(start)
	slog.Debug("subgraph similarity matching complete",
		"candidates", len(result.Compared),
		"skipped", len(result.Skipped),
		"pairsEvaluated", result.PairsEvaluated,
		"pairsMatched", len(result.Pairs),
		"radius", opts.Radius,
		"threshold", opts.Threshold)

	return result, nil
}
