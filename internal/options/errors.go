package options

import (
	"errors"
	"net/http"
)

// Domain errors for option bank operations.
var (
	ErrCorrupt        = errors.New("stored option data is corrupt")
	ErrEmptyCategory  = errors.New("category name must not be empty")
	ErrNotInitialized = errors.New("option bank has not been initialized")
	ErrInvalidBody    = errors.New("invalid request body")
)

// MapHTTPStatus maps option bank errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyCategory) || errors.Is(err, ErrInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
