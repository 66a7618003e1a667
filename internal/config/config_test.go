package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/newsqual/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[api]
base_path = "/api"
max_upload_size = "10MB"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[options]
backend = "database"
path = "bank.json"

[sessions]
idle_timeout = "30m"
archive = true

[database]
driver = "sqlite"
path = "newsqual.db"

[storage]
driver = "filesystem"
root = "blobs"
`

const overlayConfig = `
[server]
port = 9090

[sessions]
max_sessions = 8

[storage]
root = "staging-blobs"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func loadBase(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadBase(t)

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Options.UsesDatabase() {
		t.Errorf("options backend: got %s, want database", cfg.Options.Backend)
	}
	if cfg.Options.FlagPath != "first_run_flag.txt" {
		t.Errorf("options flag_path: got %s, want first_run_flag.txt", cfg.Options.FlagPath)
	}
	if cfg.Database.DriverName() != "sqlite" {
		t.Errorf("db driver: got %s, want sqlite", cfg.Database.DriverName())
	}
	if cfg.Storage.Root != "blobs" {
		t.Errorf("storage root: got %s, want blobs", cfg.Storage.Root)
	}
	if d := cfg.Sessions.IdleTimeoutDuration(); d != 30*time.Minute {
		t.Errorf("idle timeout: got %v, want 30m", d)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, 10*1024*1024)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvNewsqualEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Sessions.MaxSessions != 8 {
		t.Errorf("max sessions: got %d, want 8 (from overlay)", cfg.Sessions.MaxSessions)
	}
	if cfg.Storage.Root != "staging-blobs" {
		t.Errorf("storage root: got %s, want staging-blobs (from overlay)", cfg.Storage.Root)
	}
	if !cfg.Sessions.Archive {
		t.Error("archive should carry over from base")
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvNewsqualVersion, "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv(config.EnvOptionsBackend, "file")
	t.Setenv(config.EnvSessionsIdleTimeout, "5m")
	t.Setenv("NEWSQUAL_STORAGE_ROOT", "env-blobs")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Options.UsesDatabase() {
		t.Error("options backend should be file")
	}
	if d := cfg.Sessions.IdleTimeoutDuration(); d != 5*time.Minute {
		t.Errorf("idle timeout: got %v, want 5m", d)
	}
	if cfg.Storage.Root != "env-blobs" {
		t.Errorf("storage root: got %s, want env-blobs", cfg.Storage.Root)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Options.Backend != config.OptionsBackendFile {
		t.Errorf("options backend default: got %s, want file", cfg.Options.Backend)
	}
	if cfg.Options.Path != "qual_options.json" {
		t.Errorf("options path default: got %s, want qual_options.json", cfg.Options.Path)
	}
	if cfg.Sessions.Archive {
		t.Error("archive should default to disabled")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path default: got %s, want /metrics", cfg.Metrics.Path)
	}
	if cfg.Database.Driver != "" {
		t.Errorf("database should not be finalized for the file backend, got driver %q", cfg.Database.Driver)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 20*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, 20*1024*1024)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnv(t *testing.T) {
	cfg := loadBase(t)
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv(config.EnvNewsqualEnv, "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestDurations(t *testing.T) {
	cfg := loadBase(t)

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if d := cfg.Server.ReadTimeoutDuration(); d != time.Minute {
		t.Errorf("read timeout: got %v, want 1m", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 5MB", "5MB", 5 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 20MB", "bad", 20 * 1024 * 1024},
		{"empty falls back to 20MB", "", 20 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "nested base path",
			config:  "[api]\nbase_path = \"/api/v1\"\n",
			wantErr: "invalid base_path",
		},
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid shutdown timeout",
			config:  "shutdown_timeout = \"soon\"\n",
			wantErr: "invalid shutdown_timeout",
		},
		{
			name:    "unknown options backend",
			config:  "[options]\nbackend = \"redis\"\n",
			wantErr: "unsupported backend",
		},
		{
			name:    "database backend without name",
			config:  "[options]\nbackend = \"database\"\n",
			wantErr: "name required",
		},
		{
			name:    "invalid idle timeout",
			config:  "[sessions]\nidle_timeout = \"forever\"\n",
			wantErr: "invalid idle_timeout",
		},
		{
			name:    "archive with unknown storage driver",
			config:  "[sessions]\narchive = true\n[storage]\ndriver = \"ftp\"\n",
			wantErr: "unsupported storage driver",
		},
		{
			name:    "invalid upload size",
			config:  "[api]\nmax_upload_size = \"lots\"\n",
			wantErr: "invalid max_upload_size",
		},
		{
			name:    "relative metrics path",
			config:  "[metrics]\npath = \"metrics\"\n",
			wantErr: "path must start with /",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
