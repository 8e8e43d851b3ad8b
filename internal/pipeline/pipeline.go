// Package pipeline runs a full detection pass over one graph: rank nodes, cap the candidate set,
// then compare every pair of candidate neighborhoods.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/ranking"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/similarity"
)

var ErrInvalidMaxSimNodes = errors.New("maxSimNodes must be at least 1")

// Recorder receives run statistics. The metrics registry implements it.
type Recorder interface {
	RecordGraph(nodes, edges int)
	RecordDetection(result *similarity.Result)
	RecordFailure()
}

type Config struct {
	Ranking    ranking.Options
	Similarity similarity.Options
	// MaxSimNodes caps how many candidates reach the pairwise matcher.
	MaxSimNodes int
	// Candidates, when set, replaces the ranking as the candidate source. The cap still applies.
	Candidates []string
	Recorder   Recorder
}

func DefaultConfig() Config {
	return Config{
		Ranking:     ranking.DefaultOptions(),
		Similarity:  similarity.DefaultOptions(),
		MaxSimNodes: ranking.DefaultMaxSimNodes,
	}
}

// Report is everything a run produced.
type Report struct {
	Nodes      int                `json:"nodes"`
	Edges      int                `json:"edges"`
	Ranked     []ranking.Ranked   `json:"ranked,omitempty"`
	Candidates []string           `json:"candidates"`
	Truncated  int                `json:"truncated,omitempty"`
	Result     *similarity.Result `json:"result"`
	Duration   time.Duration      `json:"-"`
}

// Run executes one detection pass over g. g is only read.
func Run(g graph.Lister, cfg Config) (*Report, error) {
	report, err := run(g, cfg)
	if err != nil && cfg.Recorder != nil {
		cfg.Recorder.RecordFailure()
	}
	return report, err
}

func run(g graph.Lister, cfg Config) (*Report, error) {
	if cfg.MaxSimNodes < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxSimNodes, cfg.MaxSimNodes)
	}
	if err := cfg.Similarity.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	nodes, edges := len(g.Nodes()), len(g.Edges())
	if cfg.Recorder != nil {
		cfg.Recorder.RecordGraph(nodes, edges)
	}
	report := &Report{Nodes: nodes, Edges: edges}

	candidates := cfg.Candidates
	if len(candidates) == 0 {
		ranked, err := ranking.Rank(g, cfg.Ranking)
		if err != nil {
			return nil, fmt.Errorf("failed to rank nodes: %w", err)
		}
		report.Ranked = ranked
		candidates = ranking.Candidates(ranked, cfg.MaxSimNodes)
	} else if len(candidates) > cfg.MaxSimNodes {
		report.Truncated = len(candidates) - cfg.MaxSimNodes
		slog.Warn("candidate list exceeds cap, truncating",
			"candidates", len(candidates),
			"maxSimNodes", cfg.MaxSimNodes)
		candidates = candidates[:cfg.MaxSimNodes]
	}
	report.Candidates = candidates

	result, err := similarity.FindSimilar(g, candidates, cfg.Similarity)
	if err != nil {
		return nil, fmt.Errorf("failed to match candidates: %w", err)
	}
	report.Result = result
	report.Duration = time.Since(start)

	if cfg.Recorder != nil {
		cfg.Recorder.RecordDetection(result)
	}
	slog.Info("detection run complete",
		"nodes", nodes,
		"edges", edges,
		"candidates", len(candidates),
		"pairsEvaluated", result.PairsEvaluated,
		"pairsMatched", len(result.Pairs),
		"skipped", len(result.Skipped),
		"duration", report.Duration)
	return report, nil
}
