package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	// Act
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://dev.to/api" {
		t.Errorf("BaseURL: got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Listing.EstimatedTotal != 1000 {
		t.Errorf("EstimatedTotal: got %d, want 1000", cfg.Listing.EstimatedTotal)
	}
	if cfg.Home.TopCount != 5 || cfg.Home.TrendingCount != 4 || cfg.Home.LatestCount != 6 {
		t.Errorf("Home: got %+v", cfg.Home)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: http://localhost:9999/api
  timeout: 3s
  breaker:
    enabled: false
listing:
  estimated_total: 500
log:
  level: debug
`)

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://localhost:9999/api" {
		t.Errorf("BaseURL: got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("Timeout: got %v", cfg.Upstream.Timeout)
	}
	if cfg.Upstream.Breaker.Enabled {
		t.Error("breaker should be disabled")
	}
	if cfg.Upstream.Breaker.FailureRatio != 0.6 {
		t.Errorf("unset nested values keep defaults, got %v", cfg.Upstream.Breaker.FailureRatio)
	}
	if cfg.Listing.EstimatedTotal != 500 || cfg.Log.Level != "debug" {
		t.Errorf("got listing=%+v log=%+v", cfg.Listing, cfg.Log)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"8080\"\n")
	t.Setenv("PORT", "9090")
	t.Setenv("DEVTO_TIMEOUT_SECONDS", "4")
	t.Setenv("LISTING_DISCOVER_TOTAL", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port: got %q, want 9090", cfg.Server.Port)
	}
	if cfg.Upstream.Timeout != 4*time.Second {
		t.Errorf("Timeout: got %v", cfg.Upstream.Timeout)
	}
	if !cfg.Listing.DiscoverTotal || cfg.RateLimit.PerMinute != 10 {
		t.Errorf("got listing=%+v rate=%+v", cfg.Listing, cfg.RateLimit)
	}
}

func TestApplyEnv_BadNumber_ReturnsKeyInError(t *testing.T) {
	cfg := Default()
	lookup := func(key string) (string, bool) {
		if key == "LISTING_ESTIMATED_TOTAL" {
			return "lots", true
		}
		return "", false
	}

	err := cfg.applyEnv(lookup)

	if err == nil || !strings.Contains(err.Error(), "LISTING_ESTIMATED_TOTAL") {
		t.Errorf("got %v, want error naming the variable", err)
	}
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeConfig(t, "upstream: [not, a, map")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative base url", func(c *Config) { c.Upstream.BaseURL = "/api" }, "base_url"},
		{"zero timeout", func(c *Config) { c.Upstream.Timeout = 0 }, "timeout"},
		{"negative total", func(c *Config) { c.Listing.EstimatedTotal = -1 }, "estimated_total"},
		{"zero top count", func(c *Config) { c.Home.TopCount = 0 }, "home counts"},
		{"bad ratio", func(c *Config) { c.Upstream.Breaker.FailureRatio = 1.5 }, "failure_ratio"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	valid := Default()
	if err := valid.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
