package metrics

import (
	"net/http"
	"sync"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/similarity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all detection metrics.
type Registry struct {
	DetectionRunsTotal      *prometheus.CounterVec
	PairsEvaluatedTotal     prometheus.Counter
	PairsMatchedTotal       prometheus.Counter
	CandidatesSkippedTotal  prometheus.Counter
	DetectionDuration       prometheus.Histogram
	MatchedSimilarityScores prometheus.Histogram
	GraphNodes              prometheus.Gauge
	GraphEdges              prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initDetectionMetrics()
	r.initGraphMetrics()
	return r
}

func (r *Registry) initDetectionMetrics() {
	r.DetectionRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudrings_detection_runs_total",
			Help: "Total number of detection runs",
		},
		[]string{"status"}, // success, error
	)

	r.PairsEvaluatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fraudrings_pairs_evaluated_total",
			Help: "Total number of candidate pairs scored",
		},
	)

	r.PairsMatchedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fraudrings_pairs_matched_total",
			Help: "Total number of candidate pairs at or above the similarity threshold",
		},
	)

	r.CandidatesSkippedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fraudrings_candidates_skipped_total",
			Help: "Total number of candidates skipped because they were missing from the graph",
		},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fraudrings_detection_duration_seconds",
			Help:    "Duration of pairwise matching in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	r.MatchedSimilarityScores = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fraudrings_matched_similarity_score",
			Help:    "Similarity scores of matched candidate pairs",
			Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "fraudrings_graph_nodes",
			Help: "Number of nodes in the most recently analysed graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "fraudrings_graph_edges",
			Help: "Number of edges in the most recently analysed graph",
		},
	)
}

// RecordGraph records the size of the graph a run is about to analyse
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordDetection records a successful matching run
func (r *Registry) RecordDetection(result *similarity.Result) {
	r.DetectionRunsTotal.WithLabelValues("success").Inc()
	r.PairsEvaluatedTotal.Add(float64(result.PairsEvaluated))
	r.PairsMatchedTotal.Add(float64(len(result.Pairs)))
	r.CandidatesSkippedTotal.Add(float64(len(result.Skipped)))
	r.DetectionDuration.Observe(result.Duration.Seconds())
	for _, p := range result.Pairs {
		r.MatchedSimilarityScores.Observe(p.Score)
	}
}

func (r *Registry) RecordFailure() {
	r.DetectionRunsTotal.WithLabelValues("error").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
