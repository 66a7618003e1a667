package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/newsqual/pkg/database"
	"github.com/JaimeStill/newsqual/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvNewsqualEnv             = "NEWSQUAL_ENV"
	EnvNewsqualShutdownTimeout = "NEWSQUAL_SHUTDOWN_TIMEOUT"
	EnvNewsqualVersion         = "NEWSQUAL_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "NEWSQUAL_DB_DRIVER",
	Path:            "NEWSQUAL_DB_PATH",
	Host:            "NEWSQUAL_DB_HOST",
	Port:            "NEWSQUAL_DB_PORT",
	Name:            "NEWSQUAL_DB_NAME",
	User:            "NEWSQUAL_DB_USER",
	Password:        "NEWSQUAL_DB_PASSWORD",
	SSLMode:         "NEWSQUAL_DB_SSL_MODE",
	MaxOpenConns:    "NEWSQUAL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "NEWSQUAL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "NEWSQUAL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "NEWSQUAL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Driver:           "NEWSQUAL_STORAGE_DRIVER",
	ContainerName:    "NEWSQUAL_STORAGE_CONTAINER_NAME",
	ConnectionString: "NEWSQUAL_STORAGE_CONNECTION_STRING",
	ServiceURL:       "NEWSQUAL_STORAGE_SERVICE_URL",
	Region:           "NEWSQUAL_STORAGE_REGION",
	Endpoint:         "NEWSQUAL_STORAGE_ENDPOINT",
	AccessKeyID:      "NEWSQUAL_STORAGE_ACCESS_KEY_ID",
	SecretAccessKey:  "NEWSQUAL_STORAGE_SECRET_ACCESS_KEY",
	PathStyle:        "NEWSQUAL_STORAGE_PATH_STYLE",
	Root:             "NEWSQUAL_STORAGE_ROOT",
	MaxListSize:      "NEWSQUAL_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for the newsqual service.
//
// Database is only finalized when the option bank uses the database backend,
// and Storage only when session archival is enabled.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Options         OptionsConfig   `toml:"options"`
	Sessions        SessionsConfig  `toml:"sessions"`
	Metrics         MetricsConfig   `toml:"metrics"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the NEWSQUAL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvNewsqualEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Options.Merge(&overlay.Options)
	c.Sessions.Merge(&overlay.Sessions)
	c.Metrics.Merge(&overlay.Metrics)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Options.Finalize(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if err := c.Sessions.Finalize(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Metrics.Finalize(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if c.Options.UsesDatabase() {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.Sessions.Archive {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvNewsqualShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvNewsqualVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvNewsqualEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
