package config

import (
	"fmt"
	"os"
)

const (
	OptionsBackendFile     = "file"
	OptionsBackendDatabase = "database"

	EnvOptionsBackend  = "NEWSQUAL_OPTIONS_BACKEND"
	EnvOptionsPath     = "NEWSQUAL_OPTIONS_PATH"
	EnvOptionsFlagPath = "NEWSQUAL_OPTIONS_FLAG_PATH"
)

// OptionsConfig selects where the option bank document is persisted.
type OptionsConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	FlagPath string `toml:"flag_path"`
}

// UsesDatabase reports whether the option bank lives in the database.
func (c *OptionsConfig) UsesDatabase() bool {
	return c.Backend == OptionsBackendDatabase
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OptionsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *OptionsConfig) Merge(overlay *OptionsConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.FlagPath != "" {
		c.FlagPath = overlay.FlagPath
	}
}

func (c *OptionsConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = OptionsBackendFile
	}
	if c.Path == "" {
		c.Path = "qual_options.json"
	}
	if c.FlagPath == "" {
		c.FlagPath = "first_run_flag.txt"
	}
}

func (c *OptionsConfig) loadEnv() {
	if v := os.Getenv(EnvOptionsBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvOptionsPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvOptionsFlagPath); v != "" {
		c.FlagPath = v
	}
}

func (c *OptionsConfig) validate() error {
	switch c.Backend {
	case OptionsBackendFile, OptionsBackendDatabase:
		return nil
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
}
