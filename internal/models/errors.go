package models

import (
	"errors"
	"net/http"

	"github.com/rolecast/rolecast/internal/datasets"
	"github.com/rolecast/rolecast/internal/engine"
)

var (
	ErrNotFound           = errors.New("model not found")
	ErrDuplicate          = errors.New("model already exists")
	ErrTrainingInProgress = errors.New("a training run is already in progress")
)

// MapHTTPStatus translates model domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, engine.ErrModelNotTrained),
		errors.Is(err, datasets.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrTrainingInProgress):
		return http.StatusConflict
	case errors.Is(err, engine.ErrMissingColumns),
		errors.Is(err, engine.ErrEmptyDataset),
		errors.Is(err, engine.ErrEmptyJobRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
