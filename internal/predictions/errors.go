package predictions

import (
	"errors"
	"net/http"

	"github.com/rolecast/rolecast/internal/engine"
)

var (
	ErrNotFound     = errors.New("prediction not found")
	ErrDuplicate    = errors.New("prediction already exists")
	ErrInvalidInput = errors.New("invalid prediction input")
)

// MapHTTPStatus translates prediction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrModelNotTrained):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
