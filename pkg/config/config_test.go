package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: development
backend:
  type: clickhouse
models:
  dir: ./models
decision:
  default_horizon: 7
  default_threshold: 0.3
context_feed:
  locations: ["Hanoi"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "development" || c.Backend.Type != "clickhouse" {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.Decision.DefaultThreshold != 0.3 {
		t.Fatalf("threshold = %v", c.Decision.DefaultThreshold)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := map[string]func(c *Config){
		"missing environment": func(c *Config) { c.Environment = "" },
		"missing backend":     func(c *Config) { c.Backend.Type = "" },
		"bad backend":         func(c *Config) { c.Backend.Type = "postgres" },
		"missing models dir":  func(c *Config) { c.Models.Dir = "" },
		"threshold too high":  func(c *Config) { c.Decision.DefaultThreshold = 1.5 },
	}
	for name, mutate := range cases {
		c, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("MODEL_DIR", "/opt/models")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend.Type != "kafka" {
		t.Fatalf("backend = %q, want env override", c.Backend.Type)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
	if c.Models.Dir != "/opt/models" {
		t.Fatalf("models dir = %q", c.Models.Dir)
	}
}
