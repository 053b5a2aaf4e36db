// Package datasets implements the training dataset domain. It stores
// uploaded CSV candidate datasets in blob storage, tracks their records in
// the database, and hands open dataset streams to the training pipeline.
package datasets

import (
	"time"

	"github.com/google/uuid"
)

// Dataset statuses. A dataset starts as uploaded and becomes trained once a
// training run over it publishes a model.
const (
	StatusUploaded = "uploaded"
	StatusTrained  = "trained"
)

// Dataset represents a stored training dataset file.
type Dataset struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	RowCount    int       `json:"row_count"`
	StorageKey  string    `json:"storage_key"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to store an uploaded dataset.
// RowCount is determined by parsing the file before storage.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	RowCount    int
}
