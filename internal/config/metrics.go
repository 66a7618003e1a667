package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvMetricsEnabled = "NEWSQUAL_METRICS_ENABLED"
	EnvMetricsPath    = "NEWSQUAL_METRICS_PATH"
)

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MetricsConfig) Finalize() error {
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := os.Getenv(EnvMetricsPath); v != "" {
		c.Path = v
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %q", c.Path)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
