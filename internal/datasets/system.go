package datasets

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/pkg/pagination"
)

// System defines the public contract for dataset domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Dataset], error)

	Find(ctx context.Context, id uuid.UUID) (*Dataset, error)
	Create(ctx context.Context, cmd CreateCommand) (*Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Open streams the stored dataset file for training.
	// The caller must close the reader.
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// MarkTrained transitions a dataset to trained status after a
	// training run over it publishes a model.
	MarkTrained(ctx context.Context, id uuid.UUID) error
}
