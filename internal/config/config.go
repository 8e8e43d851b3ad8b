// Package config loads runtime settings from the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/logger"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/pipeline"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/ranking"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/similarity"
	"gopkg.in/yaml.v3"
)

// Config holds the server and detection settings.
type Config struct {
	URI          string `yaml:"uri"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	ReadOnly     bool   `yaml:"read_only"`
	Telemetry    bool   `yaml:"telemetry"`
	TelemetryURL string `yaml:"telemetry_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Detection       DetectionConfig `yaml:"detection"`
	Mapping         graph.Mapping   `yaml:"mapping"`
	IngestBatchSize int             `yaml:"ingest_batch_size"`

	// PlaybookDir replaces the embedded investigation playbooks when set.
	PlaybookDir string `yaml:"playbook_dir"`
}

type DetectionConfig struct {
	Radius      int     `yaml:"radius"`
	Threshold   float64 `yaml:"threshold"`
	MaxSimNodes int     `yaml:"max_sim_nodes"`
	TopK        int     `yaml:"top_k"`
	FailFast    bool    `yaml:"fail_fast"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		URI:       "bolt://localhost:7687",
		Username:  "neo4j",
		Database:  "neo4j",
		LogLevel:  "info",
		LogFormat: logger.FormatText,
		Detection: DetectionConfig{
			Radius:      similarity.DefaultRadius,
			Threshold:   similarity.DefaultThreshold,
			MaxSimNodes: ranking.DefaultMaxSimNodes,
			TopK:        ranking.DefaultTopK,
		},
		Mapping:         graph.DefaultMapping(),
		IngestBatchSize: events.DefaultBatchSize,
	}
}

// LoadConfig builds a Config from defaults overridden by environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()
	var errs []error

	cfg.URI = getEnv("NEO4J_URI", cfg.URI)
	cfg.Username = getEnv("NEO4J_USERNAME", cfg.Username)
	cfg.Password = getEnv("NEO4J_PASSWORD", cfg.Password)
	cfg.Database = getEnv("NEO4J_DATABASE", cfg.Database)
	cfg.TelemetryURL = getEnv("NEO4J_TELEMETRY_URL", cfg.TelemetryURL)
	cfg.LogLevel = getEnv("FRAUD_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("FRAUD_LOG_FORMAT", cfg.LogFormat)
	cfg.PlaybookDir = getEnv("FRAUD_PLAYBOOK_DIR", cfg.PlaybookDir)

	cfg.ReadOnly = parseEnv("NEO4J_READ_ONLY", cfg.ReadOnly, strconv.ParseBool, &errs)
	cfg.Telemetry = parseEnv("NEO4J_TELEMETRY", cfg.Telemetry, strconv.ParseBool, &errs)
	cfg.Detection.Radius = parseEnv("FRAUD_RADIUS", cfg.Detection.Radius, strconv.Atoi, &errs)
	cfg.Detection.Threshold = parseEnv("FRAUD_THRESHOLD", cfg.Detection.Threshold, parseFloat, &errs)
	cfg.Detection.MaxSimNodes = parseEnv("FRAUD_MAX_SIM_NODES", cfg.Detection.MaxSimNodes, strconv.Atoi, &errs)
	cfg.Detection.TopK = parseEnv("FRAUD_TOP_K", cfg.Detection.TopK, strconv.Atoi, &errs)
	cfg.Detection.FailFast = parseEnv("FRAUD_FAIL_FAST", cfg.Detection.FailFast, strconv.ParseBool, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file keep their values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.URI) == "" {
		errs = append(errs, errors.New("neo4j uri is required"))
	}
	if c.Detection.Radius < 0 {
		errs = append(errs, fmt.Errorf("radius must not be negative, got %d", c.Detection.Radius))
	}
	if math.IsNaN(c.Detection.Threshold) || c.Detection.Threshold < 0 || c.Detection.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold must be within [0, 1], got %v", c.Detection.Threshold))
	}
	if c.Detection.MaxSimNodes < 1 {
		errs = append(errs, fmt.Errorf("max_sim_nodes must be at least 1, got %d", c.Detection.MaxSimNodes))
	}
	if c.Detection.TopK < 0 {
		errs = append(errs, fmt.Errorf("top_k must not be negative, got %d", c.Detection.TopK))
	}
	if _, err := logger.New(c.LogLevel, c.LogFormat, nil); err != nil {
		errs = append(errs, err)
	}
	if err := c.Mapping.WithDefaults().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.PlaybookDir != "" {
		if info, err := os.Stat(c.PlaybookDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("playbook_dir %q is not a directory", c.PlaybookDir))
		}
	}
	return errors.Join(errs...)
}

// PipelineConfig converts the detection settings into a pipeline configuration.
func (c *Config) PipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Ranking.TopK = c.Detection.TopK
	cfg.MaxSimNodes = c.Detection.MaxSimNodes
	cfg.Similarity = similarity.Options{
		Radius:    c.Detection.Radius,
		Threshold: c.Detection.Threshold,
		FailFast:  c.Detection.FailFast,
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseEnv[T any](key string, fallback T, parse func(string) (T, error), errs *[]error) T {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := parse(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid value for %s: %q", key, v))
		return fallback
	}
	return parsed
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
