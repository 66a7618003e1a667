package annotation

import (
	"errors"
	"net/http"
	"strings"
)

// Domain errors for annotation commands. A command that fails leaves the
// buckets and the sequencer position unchanged.
var (
	ErrNoCurrentRow       = errors.New("no current row")
	ErrAlreadyUploaded    = errors.New("a file is already loaded")
	ErrEmptyUpload        = errors.New("uploaded file contains no rows")
	ErrEmptySelection     = errors.New("select at least one category before confirming")
	ErrNotConfirmed       = errors.New("categories have not been confirmed")
	ErrStepUnavailable    = errors.New("action not available at this step")
	ErrNotReviewing       = errors.New("row is not in review")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrEmptyCategory      = errors.New("category name must not be empty")
	ErrCustomLimit        = errors.New("a custom category was already added for this row")
	ErrInvalidBucket      = errors.New("invalid bucket")
	ErrInvalidDisposition = errors.New("invalid disposition")
	ErrNotPreviewing      = errors.New("navigation requires a bucket preview")
)

// ValidationError reports the mandatory fields that are unset and the
// fields whose values are not in the option bank.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "please select values for the following mandatory fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values for fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Fields returns every field named by the error.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Missing)+len(e.Invalid))
	out = append(out, e.Missing...)
	return append(out, e.Invalid...)
}

// MapHTTPStatus maps annotation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEmptySelection),
		errors.Is(err, ErrEmptyCategory),
		errors.Is(err, ErrEmptyUpload),
		errors.Is(err, ErrInvalidBucket),
		errors.Is(err, ErrInvalidDisposition),
		errors.Is(err, ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoCurrentRow):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyUploaded),
		errors.Is(err, ErrNotConfirmed),
		errors.Is(err, ErrStepUnavailable),
		errors.Is(err, ErrNotReviewing),
		errors.Is(err, ErrCustomLimit),
		errors.Is(err, ErrNotPreviewing):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
