package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/metrics"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	metricsAddr string
	readOnly    bool
	playbookDir string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fraud-ring tools over MCP stdio",
		Long: `Start an MCP server on stdin/stdout exposing rank-suspicious-nodes,
detect-similar-subgraphs, graph-summary, ingest-events and the investigation playbooks
against the configured Neo4j database.

Connection settings come from NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD and NEO4J_DATABASE
or the config file. With --read-only (or NEO4J_READ_ONLY=true) ingest-events is not offered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "expose read-only tools only")
	cmd.Flags().StringVar(&opts.playbookDir, "playbook-dir", "", "load investigation playbooks from this directory instead of the built-in set")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg := root.cfg
	if cmd.Flags().Changed("read-only") {
		cfg.ReadOnly = opts.readOnly
	}
	if cmd.Flags().Changed("playbook-dir") {
		cfg.PlaybookDir = opts.playbookDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewNeo4jService(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	if err != nil {
		return err
	}

	anService := analytics.NewAnalytics(cfg.TelemetryURL, &http.Client{Timeout: 5 * time.Second})
	if !cfg.Telemetry {
		anService.Disable()
	}

	registry := metrics.DefaultRegistry()
	if opts.metricsAddr != "" {
		metricsServer := startMetricsServer(opts.metricsAddr, registry)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	srv := server.NewNeo4jMCPServer(Version, cfg, dbService, anService, registry)
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			slog.Warn("failed to close database driver", "error", err)
		}
	}()

	return srv.Start(ctx)
}

func startMetricsServer(addr string, registry *metrics.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
