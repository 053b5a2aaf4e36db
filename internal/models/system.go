package models

import (
	"context"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/internal/engine"
	"github.com/rolecast/rolecast/pkg/pagination"
)

// System defines the public contract for model domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Model], error)

	Find(ctx context.Context, id uuid.UUID) (*Model, error)

	// Active returns the most recently trained ready model.
	Active(ctx context.Context) (*Model, error)

	// Train records a training run and starts it in the background.
	// Returns ErrTrainingInProgress while a prior run is still going.
	Train(ctx context.Context, cmd TrainCommand) (*Model, error)

	// Metadata returns the dropdown metadata document published by the
	// most recent training run, with values in their original casing.
	Metadata(ctx context.Context) (*engine.Metadata, error)
}
