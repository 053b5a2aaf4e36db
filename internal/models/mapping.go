package models

import (
	"net/url"

	"github.com/rolecast/rolecast/pkg/query"
	"github.com/rolecast/rolecast/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "models", "m").
	Project("id", "ID").
	Project("dataset_id", "DatasetID").
	Project("status", "Status").
	Project("classes", "Classes").
	Project("features", "Features").
	Project("vocabulary_size", "VocabularySize").
	Project("holdout_accuracy", "HoldoutAccuracy").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("trained_at", "TrainedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for model queries.
type Filters struct {
	Status    *string `json:"status,omitempty"`
	DatasetID *string `json:"dataset_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DatasetID", f.DatasetID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if d := values.Get("dataset_id"); d != "" {
		f.DatasetID = &d
	}

	return f
}

func scanModel(s repository.Scanner) (Model, error) {
	var m Model
	err := s.Scan(
		&m.ID,
		&m.DatasetID,
		&m.Status,
		&m.Classes,
		&m.Features,
		&m.VocabularySize,
		&m.HoldoutAccuracy,
		&m.Error,
		&m.CreatedAt,
		&m.TrainedAt,
	)
	return m, err
}
