package engine

import (
	"math"
	"sort"
)

// topRoles is the number of ranked predictions returned per inference.
const topRoles = 3

// Input carries one candidate's raw attributes. Skills tokens may be in any
// case; normalization happens inside Predict.
type Input struct {
	Skills          []string
	Qualification   string
	ExperienceLevel string
}

// RolePrediction is one ranked, explained prediction.
type RolePrediction struct {
	Role       string   `json:"role"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Predictor serves inference from the artifact cache.
type Predictor struct {
	cache *Cache
}

// NewPredictor creates a Predictor over the given cache.
func NewPredictor(cache *Cache) *Predictor {
	return &Predictor{cache: cache}
}

// Predict runs one inference, returning up to three ranked, explained
// predictions. Returns ErrModelNotTrained when no artifact is available.
func (p *Predictor) Predict(in Input) ([]RolePrediction, error) {
	artifact, err := p.cache.Get()
	if err != nil {
		return nil, err
	}
	return artifact.Predict(in), nil
}

// Predict runs one inference against this artifact. Inputs are normalized
// the same way training rows were; unseen qualification and experience
// values fall back to the designated category, and skill tokens outside the
// vocabulary contribute nothing.
func (a *Artifact) Predict(in Input) []RolePrediction {
	skills := NormalizeSkills(in.Skills)

	qc := a.Encoders.Qualification.SafeEncode(Normalize(in.Qualification))
	ec := a.Encoders.ExperienceLevel.SafeEncode(Normalize(in.ExperienceLevel))

	x := a.assembler.Vector(qc, ec, skills)
	probs := a.Classifier.PredictProba(x)
	attributions := a.explainer.Attributions(x)

	inputSkills := make(map[string]bool, len(skills))
	for _, s := range skills {
		inputSkills[s] = true
	}

	results := make([]RolePrediction, 0, topRoles)
	for _, code := range rankCodes(probs, len(probs)) {
		if len(results) == topRoles {
			break
		}

		// The synthesized fallback class carries no training mass and is
		// never a meaningful role.
		role := a.Encoders.JobRole.Labels[code]
		if role == FallbackLabel {
			continue
		}

		results = append(results, RolePrediction{
			Role:       role,
			Confidence: math.Round(probs[code]*10000) / 100,
			Reasons: generateReasons(
				role,
				attributions[code],
				x,
				a.FeatureCols,
				inputSkills,
				a.Encoders,
			),
		})
	}
	return results
}

// rankCodes returns up to n class codes ordered by descending probability,
// with exact ties broken by ascending code.
func rankCodes(probs []float64, n int) []int {
	codes := make([]int, len(probs))
	for i := range codes {
		codes[i] = i
	}

	sort.SliceStable(codes, func(a, b int) bool {
		if probs[codes[a]] != probs[codes[b]] {
			return probs[codes[a]] > probs[codes[b]]
		}
		return codes[a] < codes[b]
	})

	if len(codes) > n {
		codes = codes[:n]
	}
	return codes
}
