// Package storage provides blob storage operations with Azure Blob Storage,
// S3-compatible, and local filesystem implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/newsqual/pkg/lifecycle"
)

// MaxListCap bounds the number of blobs returned by a single List call.
const MaxListCap int32 = 5000

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns up to maxResults blobs whose keys begin with prefix, ordered by key.
	List(ctx context.Context, prefix string, maxResults int32) ([]BlobInfo, error)
}

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// New creates the storage system for the configured driver.
// Clients are constructed eagerly; no network call is made until Start
// or the first operation.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverAzure:
		return newAzure(cfg, logger)
	case DriverS3:
		return newS3(cfg, logger)
	case DriverFilesystem, "":
		return newFilesystem(cfg, logger)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
}

// ParseMaxResults parses a list size from a query value. An empty value
// returns fallback; values above MaxListCap are clamped.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidMaxResults
	}
	return int32(min(n, int(MaxListCap))), nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

func clampList(maxResults int32) int32 {
	if maxResults <= 0 || maxResults > MaxListCap {
		return MaxListCap
	}
	return maxResults
}
