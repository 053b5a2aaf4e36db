package engine_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rolecast/rolecast/internal/engine"
)

func trainedArtifact(t *testing.T) *engine.Artifact {
	t.Helper()

	result, err := engine.Train(context.Background(), trainingDataset(), testTrainConfig(), discardLogger())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return result.Artifact
}

func TestPredictRanking(t *testing.T) {
	a := trainedArtifact(t)

	results := a.Predict(engine.Input{
		Skills:          []string{"Go", "Docker", "Kubernetes"},
		Qualification:   "B.Tech",
		ExperienceLevel: "Senior",
	})

	if len(results) == 0 || len(results) > 3 {
		t.Fatalf("result count: got %d, want 1..3", len(results))
	}
	if results[0].Role != "backend engineer" {
		t.Errorf("top role: got %q, want %q", results[0].Role, "backend engineer")
	}

	for i, r := range results {
		if r.Confidence < 0 || r.Confidence > 100 {
			t.Errorf("result %d confidence out of range: %v", i, r.Confidence)
		}
		if rounded := math.Round(r.Confidence*100) / 100; rounded != r.Confidence {
			t.Errorf("result %d confidence not rounded to two decimals: %v", i, r.Confidence)
		}
		if i > 0 && results[i-1].Confidence < r.Confidence {
			t.Errorf("results not sorted by descending confidence at rank %d", i)
		}
		if len(r.Reasons) == 0 {
			t.Errorf("result %d has no reasons", i)
		}
	}
}

func TestPredictUnseenCategoriesFallBack(t *testing.T) {
	a := trainedArtifact(t)

	results := a.Predict(engine.Input{
		Skills:          []string{"python", "sql"},
		Qualification:   "Diploma in Astrology",
		ExperienceLevel: "Intern",
	})

	if len(results) == 0 {
		t.Fatal("expected predictions despite unseen categorical values")
	}

	// An unseen value and the literal fallback label encode identically,
	// so the ranked output must match.
	literal := a.Predict(engine.Input{
		Skills:          []string{"python", "sql"},
		Qualification:   engine.FallbackLabel,
		ExperienceLevel: engine.FallbackLabel,
	})
	if len(literal) != len(results) {
		t.Fatalf("fallback equivalence broken: %d vs %d results", len(literal), len(results))
	}
	for i := range results {
		if results[i].Role != literal[i].Role || results[i].Confidence != literal[i].Confidence {
			t.Errorf("rank %d differs from literal fallback input: %+v vs %+v", i, results[i], literal[i])
		}
	}
}

func TestPredictReasonsCiteOnlySuppliedSkills(t *testing.T) {
	a := trainedArtifact(t)

	supplied := map[string]bool{"go": true, "docker": true}
	results := a.Predict(engine.Input{
		Skills:          []string{"Go", "Docker"},
		Qualification:   "B.Tech",
		ExperienceLevel: "Mid",
	})

	for _, r := range results {
		for _, reason := range r.Reasons {
			skill, ok := strings.CutSuffix(reason, " aligned strongly with "+r.Role)
			if !ok {
				continue
			}
			if !supplied[skill] {
				t.Errorf("reason cites skill %q the candidate did not supply", skill)
			}
		}
	}
}

func TestPredictFallbackReasons(t *testing.T) {
	a := trainedArtifact(t)

	results := a.Predict(engine.Input{
		Qualification:   "B.Tech",
		ExperienceLevel: "Mid",
	})
	if len(results) == 0 {
		t.Fatal("expected predictions for a skill-less candidate")
	}

	const fallback = "No direct skill signals; inferred from broader pattern"
	if results[0].Reasons[0] != fallback {
		t.Errorf("first reason: got %q, want %q", results[0].Reasons[0], fallback)
	}
}

func TestPredictReasonOrdering(t *testing.T) {
	a := trainedArtifact(t)

	results := a.Predict(engine.Input{
		Skills:          []string{"TensorFlow", "Python"},
		Qualification:   "M.Sc",
		ExperienceLevel: "Senior",
	})

	// Skill-grounded reasons come before education and experience reasons.
	for _, r := range results {
		seenTrait := false
		for _, reason := range r.Reasons {
			isSkill := strings.Contains(reason, "aligned strongly with")
			if isSkill && seenTrait {
				t.Errorf("skill reason %q appears after a trait reason", reason)
			}
			if !isSkill {
				seenTrait = true
			}
		}
		if !seenTrait {
			t.Errorf("role %q has no education or experience reason", r.Role)
		}
	}
}

func TestPredictNeverRanksFallbackClass(t *testing.T) {
	ds := &engine.Dataset{Records: []engine.Record{
		{Skills: "Rust, WASM", Qualification: "B.Tech", ExperienceLevel: "Mid", JobRole: "Systems Engineer"},
		{Skills: "Rust, LLVM", Qualification: "M.Sc", ExperienceLevel: "Senior", JobRole: "Systems Engineer"},
		{Skills: "Figma, CSS", Qualification: "B.Des", ExperienceLevel: "Mid", JobRole: "UI Designer"},
		{Skills: "CSS, Figma", Qualification: "B.Des", ExperienceLevel: "Entry", JobRole: "UI Designer"},
		{Skills: "Rust, WASM, LLVM", Qualification: "B.Tech", ExperienceLevel: "Senior", JobRole: "Systems Engineer"},
	}}

	result, err := engine.Train(context.Background(), ds, testTrainConfig(), discardLogger())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	results := result.Artifact.Predict(engine.Input{
		Skills:          []string{"rust"},
		Qualification:   "b.tech",
		ExperienceLevel: "mid",
	})

	if len(results) != 2 {
		t.Fatalf("result count: got %d, want the 2 observed roles", len(results))
	}
	for _, r := range results {
		if r.Role == engine.FallbackLabel {
			t.Errorf("fallback class ranked as a prediction")
		}
	}
}

func TestPredictorUntrained(t *testing.T) {
	cache := engine.NewCache(engine.NewStore(t.TempDir()))
	predictor := engine.NewPredictor(cache)

	_, err := predictor.Predict(engine.Input{Skills: []string{"go"}})
	if !errors.Is(err, engine.ErrModelNotTrained) {
		t.Errorf("got %v, want ErrModelNotTrained", err)
	}
}
