package predictions

import (
	"context"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/pkg/pagination"
)

// System defines the public contract for prediction domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prediction], error)

	Find(ctx context.Context, id uuid.UUID) (*Prediction, error)

	// Predict runs inference for the submitted profile and records the
	// outcome in the audit history under the requesting identity.
	Predict(ctx context.Context, requestedBy string, cmd PredictCommand) (*Prediction, error)

	// Approve marks a recorded prediction as reviewed and correct.
	Approve(ctx context.Context, id uuid.UUID) (*Prediction, error)

	// Flag marks a recorded prediction for review, clearing any approval.
	Flag(ctx context.Context, id uuid.UUID) (*Prediction, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
