package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/ingest"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

// Domain errors for session operations.
var (
	ErrNotFound        = errors.New("session not found")
	ErrInvalidID       = errors.New("invalid session id")
	ErrLimitReached    = errors.New("session limit reached")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrNothingToExport = errors.New("no qualified or partially qualified rows to export")
	ErrArchiveDisabled = errors.New("archive storage is not configured")
)

// MapHTTPStatus maps session, annotation, and ingest errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ingest.ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrLimitReached):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNothingToExport):
		return http.StatusConflict
	case errors.Is(err, ErrArchiveDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return annotation.MapHTTPStatus(err)
}
