package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/newsqual/pkg/formatting"
	"github.com/JaimeStill/newsqual/pkg/middleware"
	"github.com/JaimeStill/newsqual/pkg/pagination"
)

const defaultMaxUploadSize = 20 << 20

// APIConfig covers the API module: its mount point, the largest workbook an
// upload may carry, and the nested CORS and pagination sections.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes parses MaxUploadSize, falling back to 20MB when the
// value is unset or malformed.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err == nil {
		return size
	}
	return defaultMaxUploadSize
}

func (c *APIConfig) Finalize() error {
	defaultString(&c.BasePath, "/api")
	defaultString(&c.MaxUploadSize, formatting.FormatBytes(defaultMaxUploadSize, 0))

	envString(&c.BasePath, "NEWSQUAL_API_BASE_PATH")
	envString(&c.MaxUploadSize, "NEWSQUAL_API_MAX_UPLOAD_SIZE")

	if err := c.validate(); err != nil {
		return err
	}

	if err := c.CORS.Finalize(&middleware.CORSEnv{
		Enabled:          "NEWSQUAL_CORS_ENABLED",
		Origins:          "NEWSQUAL_CORS_ORIGINS",
		AllowedMethods:   "NEWSQUAL_CORS_ALLOWED_METHODS",
		AllowedHeaders:   "NEWSQUAL_CORS_ALLOWED_HEADERS",
		AllowCredentials: "NEWSQUAL_CORS_ALLOW_CREDENTIALS",
		MaxAge:           "NEWSQUAL_CORS_MAX_AGE",
	}); err != nil {
		return fmt.Errorf("cors: %w", err)
	}

	if err := c.Pagination.Finalize(&pagination.ConfigEnv{
		DefaultPageSize: "NEWSQUAL_PAGINATION_DEFAULT_PAGE_SIZE",
		MaxPageSize:     "NEWSQUAL_PAGINATION_MAX_PAGE_SIZE",
	}); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) validate() error {
	if len(c.BasePath) < 2 || !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single segment such as /api", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("invalid max_upload_size %q: must be positive", c.MaxUploadSize)
	}
	return nil
}
