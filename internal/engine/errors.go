package engine

import "errors"

// Core errors surfaced to callers. Unseen categorical values and unknown
// skill tokens are recovered locally and never produce errors.
var (
	// ErrModelNotTrained indicates no artifact has ever been saved.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrMissingColumns indicates the training dataset lacks required columns.
	ErrMissingColumns = errors.New("dataset missing required columns")
	// ErrEmptyDataset indicates the training dataset contains no rows.
	ErrEmptyDataset = errors.New("dataset contains no rows")
	// ErrEmptyJobRole indicates a training row has no job-role label.
	ErrEmptyJobRole = errors.New("dataset contains a row with an empty job role")
)
