// Package config loads application settings from an optional YAML file and
// environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the server looks for its YAML file.
const DefaultPath = "config/app.yaml"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Listing   ListingConfig   `yaml:"listing"`
	Home      HomeConfig      `yaml:"home"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	AppName   string `yaml:"app_name"`
	StaticDir string `yaml:"static_dir"`
}

// UpstreamConfig describes the dev.to API.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Breaker   BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio"`
	Interval     time.Duration `yaml:"interval"`
	OpenTimeout  time.Duration `yaml:"open_timeout"`
}

// ListingConfig controls the /blog page. The API has no total count, so
// EstimatedTotal stands in for it unless DiscoverTotal asks the API at startup.
type ListingConfig struct {
	EstimatedTotal int  `yaml:"estimated_total"`
	DiscoverTotal  bool `yaml:"discover_total"`
}

type HomeConfig struct {
	TopCount      int `yaml:"top_count"`
	TrendingCount int `yaml:"trending_count"`
	LatestCount   int `yaml:"latest_count"`
}

// RateLimitConfig is the per-client request budget.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:      "3000",
			AppName:   "ByteThoughts",
			StaticDir: "./static",
		},
		Upstream: UpstreamConfig{
			BaseURL:   "https://dev.to/api",
			Timeout:   10 * time.Second,
			UserAgent: "bytethoughts/1.0",
			Breaker: BreakerConfig{
				Enabled:      true,
				MinRequests:  5,
				FailureRatio: 0.6,
				Interval:     30 * time.Second,
				OpenTimeout:  30 * time.Second,
			},
		},
		Listing: ListingConfig{EstimatedTotal: 1000},
		Home:    HomeConfig{TopCount: 5, TrendingCount: 4, LatestCount: 6},
		RateLimit: RateLimitConfig{
			PerMinute: 120,
			Burst:     30,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("PORT", &c.Server.Port)
	str("STATIC_DIR", &c.Server.StaticDir)
	str("DEVTO_BASE_URL", &c.Upstream.BaseURL)
	str("DEVTO_API_KEY", &c.Upstream.APIKey)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	var timeoutSeconds int
	if err := integer("DEVTO_TIMEOUT_SECONDS", &timeoutSeconds); err != nil {
		return err
	}
	if timeoutSeconds > 0 {
		c.Upstream.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	for key, dst := range map[string]*int{
		"RATE_LIMIT_PER_MINUTE":   &c.RateLimit.PerMinute,
		"LISTING_ESTIMATED_TOTAL": &c.Listing.EstimatedTotal,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	if err := boolean("LISTING_DISCOVER_TOTAL", &c.Listing.DiscoverTotal); err != nil {
		return err
	}
	return boolean("DEVTO_BREAKER_ENABLED", &c.Upstream.Breaker.Enabled)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream.base_url %q is not an absolute URL", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Listing.EstimatedTotal < 0 {
		return errors.New("listing.estimated_total must not be negative")
	}
	if c.Home.TopCount < 1 || c.Home.TrendingCount < 1 || c.Home.LatestCount < 1 {
		return errors.New("home counts must be at least 1")
	}
	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if r := c.Upstream.Breaker.FailureRatio; r <= 0 || r > 1 {
		return fmt.Errorf("upstream.breaker.failure_ratio %v must be in (0, 1]", r)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}
	return nil
}
