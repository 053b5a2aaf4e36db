package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
)

// TrainConfig controls a training run. Zero values fall back to defaults
// chosen for reproducibility: 150 trees, depth 12, 80/20 split, seed 42.
type TrainConfig struct {
	Estimators     int
	MaxDepth       int
	MinSamplesLeaf int
	Holdout        float64
	Seed           int64
	Workers        int
}

func (c TrainConfig) withDefaults() TrainConfig {
	if c.Estimators <= 0 {
		c.Estimators = 150
	}
	if c.Holdout <= 0 || c.Holdout >= 1 {
		c.Holdout = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}

// TrainResult bundles the outputs of one training run. Classes counts the
// distinct job roles observed in the dataset, excluding the synthesized
// fallback class.
type TrainResult struct {
	Artifact        *Artifact
	Metadata        *Metadata
	Rows            int
	Classes         int
	HoldoutRows     int
	HoldoutAccuracy float64
}

// Train fits a prediction artifact from a parsed dataset.
//
// Order matters for determinism: original-case metadata is captured before
// normalization, the vocabulary is built and sorted before the matrix is
// assembled, encoders assign codes lexicographically, and the train/holdout
// split and forest growth derive from the configured seed.
func Train(ctx context.Context, ds *Dataset, cfg TrainConfig, logger *slog.Logger) (*TrainResult, error) {
	if ds == nil || len(ds.Records) == 0 {
		return nil, ErrEmptyDataset
	}
	cfg = cfg.withDefaults()

	meta := collectMetadata(ds.Records)

	rows := make([]normalizedRecord, len(ds.Records))
	for i, rec := range ds.Records {
		rows[i] = normalizedRecord{
			qualification: Normalize(rec.Qualification),
			experience:    Normalize(rec.ExperienceLevel),
			skills:        SplitSkills(rec.Skills),
			jobRole:       Normalize(rec.JobRole),
		}
		if rows[i].jobRole == "" {
			return nil, ErrEmptyJobRole
		}
	}

	observedRoles := make(map[string]bool, 8)
	for _, row := range rows {
		observedRoles[row.jobRole] = true
	}

	skillRows := make([]string, len(ds.Records))
	for i, rec := range ds.Records {
		skillRows[i] = rec.Skills
	}
	vocab := BuildVocabulary(skillRows)

	enc := fitEncoders(rows)
	assembler := NewAssembler(vocab)

	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		qc, _ := enc.Qualification.Encode(row.qualification)
		ec, _ := enc.ExperienceLevel.Encode(row.experience)
		rc, _ := enc.JobRole.Encode(row.jobRole)

		X[i] = assembler.Vector(qc, ec, row.skills)
		y[i] = rc
	}

	trainIdx, holdoutIdx := split(len(rows), cfg.Holdout, cfg.Seed)

	forest, err := GrowForest(ctx, gather(X, trainIdx), gatherLabels(y, trainIdx), enc.JobRole.Size(), ForestConfig{
		Trees:          cfg.Estimators,
		MaxDepth:       cfg.MaxDepth,
		MinSamplesLeaf: cfg.MinSamplesLeaf,
		Seed:           cfg.Seed,
		Workers:        cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("grow forest: %w", err)
	}

	accuracy := evaluate(forest, X, y, holdoutIdx)

	artifact := &Artifact{
		Classifier:  forest,
		FeatureCols: assembler.Columns(),
		Vocabulary:  vocab,
		Encoders:    enc,
	}
	artifact.finalize()

	logger.Info("training complete",
		"rows", len(rows),
		"features", assembler.Width(),
		"classes", len(observedRoles),
		"vocabulary", len(vocab),
		"holdout_rows", len(holdoutIdx),
		"holdout_accuracy", accuracy,
	)

	return &TrainResult{
		Artifact:        artifact,
		Metadata:        meta,
		Rows:            len(rows),
		Classes:         len(observedRoles),
		HoldoutRows:     len(holdoutIdx),
		HoldoutAccuracy: accuracy,
	}, nil
}

type normalizedRecord struct {
	qualification string
	experience    string
	skills        []string
	jobRole       string
}

func fitEncoders(rows []normalizedRecord) Encoders {
	quals := make([]string, len(rows))
	exps := make([]string, len(rows))
	roles := make([]string, len(rows))
	for i, row := range rows {
		quals[i] = row.qualification
		exps[i] = row.experience
		roles[i] = row.jobRole
	}

	// Every encoder carries the fallback label. For the two safe-encoded
	// fields it is the target for unseen inference values; the job-role
	// encoder holds it as a class with no training mass, and it is never
	// ranked as a prediction.
	return Encoders{
		Qualification:   FitEncoder(quals, FallbackLabel),
		ExperienceLevel: FitEncoder(exps, FallbackLabel),
		JobRole:         FitEncoder(roles, FallbackLabel),
	}
}

// collectMetadata captures original-case distinct values before any
// normalization touches the dataset.
func collectMetadata(records []Record) *Metadata {
	quals := make(map[string]bool)
	exps := make(map[string]bool)
	skills := make(map[string]bool)

	for _, rec := range records {
		if v := rec.Qualification; v != "" {
			quals[v] = true
		}
		if v := rec.ExperienceLevel; v != "" {
			exps[v] = true
		}
		for _, part := range splitOriginalSkills(rec.Skills) {
			skills[part] = true
		}
	}

	return &Metadata{
		Qualification:   sortedKeys(quals),
		ExperienceLevel: sortedKeys(exps),
		Skills:          sortedKeys(skills),
	}
}

// splitOriginalSkills splits a raw skill list without lower-casing, keeping
// display case for the metadata document.
func splitOriginalSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// split partitions row indexes into train and holdout sets with a seeded
// shuffle. Small datasets that cannot spare a holdout row train on
// everything.
func split(n int, holdout float64, seed int64) (train, hold []int) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	cut := int(float64(n) * holdout)
	if n-cut < 1 {
		cut = 0
	}

	hold = perm[:cut]
	train = perm[cut:]
	return train, hold
}

func gather(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func gatherLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func evaluate(f *Forest, X [][]float64, y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}

	correct := 0
	for _, i := range idx {
		probs := f.PredictProba(X[i])
		best := 0
		for c, p := range probs {
			if p > probs[best] {
				best = c
			}
		}
		if best == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(idx))
}
