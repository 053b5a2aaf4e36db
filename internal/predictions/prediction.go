// Package predictions serves role inference requests and maintains the
// audit history of past predictions, including reviewer approval and
// flagging state.
package predictions

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prediction is one recorded inference: the submitted profile, the top
// prediction, the full ranked results, and reviewer state.
type Prediction struct {
	ID              uuid.UUID       `json:"id"`
	RequestedBy     string          `json:"requested_by"`
	Skills          []string        `json:"skills"`
	Qualification   string          `json:"qualification"`
	ExperienceLevel string          `json:"experience_level"`
	PredictedRole   string          `json:"predicted_role"`
	Confidence      float64         `json:"confidence"`
	Results         json.RawMessage `json:"results"`
	IsApproved      bool            `json:"is_approved"`
	IsFlagged       bool            `json:"is_flagged"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SkillList accepts skills as either a JSON array of strings or a single
// comma-separated string.
type SkillList []string

// UnmarshalJSON supports both array and comma-separated string forms.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parts := strings.Split(str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*s = out
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// PredictCommand carries one candidate profile submitted for inference.
type PredictCommand struct {
	Skills          SkillList `json:"skills"`
	Qualification   string    `json:"qualification"`
	ExperienceLevel string    `json:"experience_level"`
}
