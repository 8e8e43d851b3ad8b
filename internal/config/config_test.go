package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_DATABASE", "NEO4J_READ_ONLY", "FRAUD_RADIUS", "FRAUD_THRESHOLD", "FRAUD_MAX_SIM_NODES", "FRAUD_TOP_K", "FRAUD_PLAYBOOK_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.URI)
	assert.Equal(t, "neo4j", cfg.Username)
	assert.Equal(t, "neo4j", cfg.Database)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 2, cfg.Detection.Radius)
	assert.Equal(t, 0.75, cfg.Detection.Threshold)
	assert.Equal(t, 20, cfg.Detection.MaxSimNodes)
	assert.Equal(t, 10, cfg.Detection.TopK)
	assert.Equal(t, "Entity", cfg.Mapping.NodeLabel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://db:7687")
	t.Setenv("NEO4J_READ_ONLY", "true")
	t.Setenv("FRAUD_RADIUS", "3")
	t.Setenv("FRAUD_THRESHOLD", "0.6")
	t.Setenv("FRAUD_MAX_SIM_NODES", "8")
	t.Setenv("FRAUD_FAIL_FAST", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "neo4j://db:7687", cfg.URI)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 3, cfg.Detection.Radius)
	assert.Equal(t, 0.6, cfg.Detection.Threshold)
	assert.Equal(t, 8, cfg.Detection.MaxSimNodes)
	assert.True(t, cfg.Detection.FailFast)

	p := cfg.PipelineConfig()
	assert.Equal(t, 8, p.MaxSimNodes)
	assert.Equal(t, 3, p.Similarity.Radius)
	assert.Equal(t, 0.6, p.Similarity.Threshold)
	assert.True(t, p.Similarity.FailFast)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("FRAUD_RADIUS", "two")
	t.Setenv("NEO4J_READ_ONLY", "maybe")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRAUD_RADIUS")
	assert.Contains(t, err.Error(), "NEO4J_READ_ONLY")
}

func TestLoadFile_OverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraud-rings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: fraud
detection:
  threshold: 0.9
  max_sim_nodes: 12
mapping:
  node_label: Account
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "fraud", cfg.Database)
	assert.Equal(t, "bolt://localhost:7687", cfg.URI)
	assert.Equal(t, 0.9, cfg.Detection.Threshold)
	assert.Equal(t, 12, cfg.Detection.MaxSimNodes)
	assert.Equal(t, 2, cfg.Detection.Radius)
	assert.Equal(t, "Account", cfg.Mapping.NodeLabel)
	assert.Equal(t, "INTERACTS", cfg.Mapping.RelationshipType)
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection: [1, 2"), 0o600))
	assert.Error(t, cfg.LoadFile(path))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative radius", mutate: func(c *Config) { c.Detection.Radius = -1 }},
		{name: "threshold too high", mutate: func(c *Config) { c.Detection.Threshold = 1.01 }},
		{name: "zero cap", mutate: func(c *Config) { c.Detection.MaxSimNodes = 0 }},
		{name: "negative topK", mutate: func(c *Config) { c.Detection.TopK = -2 }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
		{name: "unsafe label", mutate: func(c *Config) { c.Mapping.NodeLabel = "Entity`" }},
		{name: "empty uri", mutate: func(c *Config) { c.URI = " " }},
		{name: "missing playbook dir", mutate: func(c *Config) { c.PlaybookDir = filepath.Join(os.TempDir(), "no-such-playbooks") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_PlaybookDir(t *testing.T) {
	cfg := Default()
	cfg.PlaybookDir = t.TempDir()
	assert.NoError(t, cfg.Validate())
}
