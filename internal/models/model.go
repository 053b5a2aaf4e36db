// Package models manages classifier training runs and the published model
// registry. Training runs in the background against an uploaded dataset and
// publishes a new artifact bundle on success.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Model lifecycle states.
const (
	StatusTraining = "training"
	StatusReady    = "ready"
	StatusFailed   = "failed"
)

// Model represents a single training run and its published classifier.
type Model struct {
	ID              uuid.UUID  `json:"id"`
	DatasetID       uuid.UUID  `json:"dataset_id"`
	Status          string     `json:"status"`
	Classes         int        `json:"classes"`
	Features        int        `json:"features"`
	VocabularySize  int        `json:"vocabulary_size"`
	HoldoutAccuracy *float64   `json:"holdout_accuracy,omitempty"`
	Error           *string    `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	TrainedAt       *time.Time `json:"trained_at,omitempty"`
}

// TrainCommand identifies the dataset a training run should consume.
type TrainCommand struct {
	DatasetID uuid.UUID `json:"dataset_id"`
}
