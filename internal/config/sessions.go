package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvSessionsIdleTimeout = "NEWSQUAL_SESSIONS_IDLE_TIMEOUT"
	EnvSessionsMaxSessions = "NEWSQUAL_SESSIONS_MAX_SESSIONS"
	EnvSessionsArchive     = "NEWSQUAL_SESSIONS_ARCHIVE"
)

// SessionsConfig holds annotation session limits and archival settings.
// Archive enables the storage section; uploads and exports are copied to
// blob storage when it is set.
type SessionsConfig struct {
	IdleTimeout string `toml:"idle_timeout"`
	MaxSessions int    `toml:"max_sessions"`
	Archive     bool   `toml:"archive"`
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *SessionsConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SessionsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SessionsConfig) Merge(overlay *SessionsConfig) {
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.MaxSessions != 0 {
		c.MaxSessions = overlay.MaxSessions
	}
	if overlay.Archive {
		c.Archive = true
	}
}

func (c *SessionsConfig) loadDefaults() {
	if c.IdleTimeout == "" {
		c.IdleTimeout = "2h"
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 64
	}
}

func (c *SessionsConfig) loadEnv() {
	if v := os.Getenv(EnvSessionsIdleTimeout); v != "" {
		c.IdleTimeout = v
	}
	if v := os.Getenv(EnvSessionsMaxSessions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSessions = n
		}
	}
	if v := os.Getenv(EnvSessionsArchive); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Archive = b
		}
	}
}

func (c *SessionsConfig) validate() error {
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return fmt.Errorf("invalid idle_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("idle_timeout must be positive")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1")
	}
	return nil
}
