package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/metrics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	eventsPath  string
	generate    int
	seed        uint64
	candidates  []string
	radius      int
	threshold   float64
	maxSimNodes int
	topK        int
	failFast    bool
	jsonOutput  bool
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank nodes and report similar neighborhoods for an events file",
		Long: `Build the interaction graph from an events CSV (or a synthetic data set), rank nodes by
PageRank and betweenness, and compare the neighborhoods of the top candidates pairwise.

Examples:
  fraud-rings analyze --events events.csv
  fraud-rings analyze --generate 200 --seed 1 --threshold 0.8 --json
  fraud-rings analyze --events events.csv --candidates D001,D002,IP004 --radius 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.eventsPath, "events", "e", "", "events CSV file (header user,device,ip,event)")
	cmd.Flags().IntVar(&opts.generate, "generate", 0, "analyse this many synthetic events instead of a file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for --generate")
	cmd.Flags().StringSliceVar(&opts.candidates, "candidates", nil, "compare these node IDs instead of the top ranked nodes")
	cmd.Flags().IntVar(&opts.radius, "radius", 0, "neighborhood radius in hops (overrides config)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "minimum similarity score to report (overrides config)")
	cmd.Flags().IntVar(&opts.maxSimNodes, "max-sim-nodes", 0, "maximum number of candidates compared (overrides config)")
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "number of ranked nodes kept (overrides config)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "abort when a candidate is not in the graph")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the full report as JSON")
	cmd.MarkFlagsMutuallyExclusive("events", "generate")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	input, err := loadEvents(opts)
	if err != nil {
		return err
	}
	g := events.BuildGraph(input)

	cfg := root.cfg.PipelineConfig()
	flags := cmd.Flags()
	if flags.Changed("radius") {
		cfg.Similarity.Radius = opts.radius
	}
	if flags.Changed("threshold") {
		cfg.Similarity.Threshold = opts.threshold
	}
	if flags.Changed("max-sim-nodes") {
		cfg.MaxSimNodes = opts.maxSimNodes
	}
	if flags.Changed("top-k") {
		cfg.Ranking.TopK = opts.topK
	}
	if flags.Changed("fail-fast") {
		cfg.Similarity.FailFast = opts.failFast
	}
	cfg.Candidates = opts.candidates
	cfg.Recorder = metrics.DefaultRegistry()

	slog.Debug("analysing events", "events", len(input), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	report, err := pipeline.Run(g, cfg)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report, cfg)
	return nil
}

func loadEvents(opts *analyzeOptions) ([]events.Event, error) {
	switch {
	case opts.eventsPath != "":
		f, err := os.Open(opts.eventsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open events file: %w", err)
		}
		defer f.Close()
		return events.ReadCSV(f)
	case opts.generate > 0:
		gen := events.DefaultGeneratorOptions()
		gen.Seed = opts.seed
		return events.Generate(opts.generate, gen), nil
	default:
		return nil, fmt.Errorf("one of --events or --generate is required")
	}
}

func printReport(w io.Writer, report *pipeline.Report, cfg pipeline.Config) {
	fmt.Fprintf(w, "Graph: %d nodes, %d edges\n", report.Nodes, report.Edges)

	if len(report.Ranked) > 0 {
		fmt.Fprintln(w, "\nTop suspicious nodes:")
		for i, r := range report.Ranked {
			fmt.Fprintf(w, "  %2d. %-8s %-7s score=%.4f pagerank=%.4f betweenness=%.4f\n",
				i+1, r.NodeID, r.Category, r.Score, r.PageRank, r.Betweenness)
		}
	}

	result := report.Result
	fmt.Fprintf(w, "\nCompared %d candidates, %d pairs (radius %d, threshold %.2f)\n",
		len(result.Compared), result.PairsEvaluated, cfg.Similarity.Radius, cfg.Similarity.Threshold)
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "  skipped %s: %s\n", s.NodeID, s.Reason)
	}

	if len(result.Pairs) == 0 {
		fmt.Fprintln(w, "\nNo similar subgraphs found.")
		return
	}
	fmt.Fprintln(w, "\nSimilar subgraphs:")
	for _, p := range result.Pairs {
		fmt.Fprintf(w, "  %s ~ %s score=%.4f (category=%.4f edge=%.4f node=%.4f)\n",
			p.NodeA, p.NodeB, p.Score, p.CategorySimilarity, p.EdgeTypeSimilarity, p.NodeOverlapSimilarity)
	}
}
