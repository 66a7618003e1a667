package storage

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("blob not found")
	ErrEmptyKey          = errors.New("storage key must not be empty")
	ErrInvalidKey        = errors.New("storage key contains invalid path segment")
	ErrInvalidMaxResults = errors.New("max results must be a positive integer")
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// MapHTTPStatus maps storage errors to HTTP status codes. Anything
// unrecognized is a backend failure.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey),
		errors.Is(err, ErrInvalidKey),
		errors.Is(err, ErrInvalidMaxResults):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
