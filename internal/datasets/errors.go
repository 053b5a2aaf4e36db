package datasets

import (
	"errors"
	"net/http"

	"github.com/rolecast/rolecast/internal/engine"
)

// Domain errors for dataset operations.
var (
	ErrNotFound     = errors.New("dataset not found")
	ErrDuplicate    = errors.New("dataset already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
)

// MapHTTPStatus maps dataset domain errors to appropriate HTTP status codes.
// Engine dataset-shape errors surface as bad requests.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, engine.ErrMissingColumns) ||
		errors.Is(err, engine.ErrEmptyDataset) ||
		errors.Is(err, engine.ErrEmptyJobRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
