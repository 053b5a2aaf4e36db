package predictions

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rolecast/rolecast/pkg/query"
	"github.com/rolecast/rolecast/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "predictions", "p").
	Project("id", "ID").
	Project("requested_by", "RequestedBy").
	Project("skills", "Skills").
	Project("qualification", "Qualification").
	Project("experience_level", "ExperienceLevel").
	Project("predicted_role", "PredictedRole").
	Project("confidence", "Confidence").
	Project("results", "Results").
	Project("is_approved", "IsApproved").
	Project("is_flagged", "IsFlagged").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for prediction queries.
type Filters struct {
	RequestedBy   *string `json:"requested_by,omitempty"`
	PredictedRole *string `json:"predicted_role,omitempty"`
	IsApproved    *bool   `json:"is_approved,omitempty"`
	IsFlagged     *bool   `json:"is_flagged,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("RequestedBy", f.RequestedBy).
		WhereContains("PredictedRole", f.PredictedRole).
		WhereEquals("IsApproved", f.IsApproved).
		WhereEquals("IsFlagged", f.IsFlagged)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if r := values.Get("requested_by"); r != "" {
		f.RequestedBy = &r
	}
	if role := values.Get("predicted_role"); role != "" {
		f.PredictedRole = &role
	}
	if a := values.Get("is_approved"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.IsApproved = &v
		}
	}
	if fl := values.Get("is_flagged"); fl != "" {
		if v, err := strconv.ParseBool(fl); err == nil {
			f.IsFlagged = &v
		}
	}

	return f
}

func scanPrediction(s repository.Scanner) (Prediction, error) {
	var (
		p      Prediction
		skills []byte
	)

	err := s.Scan(
		&p.ID,
		&p.RequestedBy,
		&skills,
		&p.Qualification,
		&p.ExperienceLevel,
		&p.PredictedRole,
		&p.Confidence,
		&p.Results,
		&p.IsApproved,
		&p.IsFlagged,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return p, err
	}
	return p, nil
}
