package engine

import "slices"

// SkillColumnPrefix marks the multi-hot skill columns in the feature layout.
const SkillColumnPrefix = "skill__"

// Categorical columns occupy the first two vector positions; the multi-hot
// skill columns follow in vocabulary order.
const (
	colQualification   = "qualification"
	colExperienceLevel = "experience_level"
	categoricalColumns = 2
)

// FeatureColumns returns the frozen column layout for a skill vocabulary:
// the two categorical columns followed by one skill column per token.
func FeatureColumns(vocab []string) []string {
	cols := make([]string, 0, categoricalColumns+len(vocab))
	cols = append(cols, colQualification, colExperienceLevel)
	for _, token := range vocab {
		cols = append(cols, SkillColumnPrefix+token)
	}
	return cols
}

// Assembler produces feature vectors in the fixed column order derived from
// a skill vocabulary. The same assembler serves bulk training-matrix
// construction and single inference rows.
type Assembler struct {
	columns    []string
	vocabIndex map[string]int
}

// NewAssembler creates an Assembler over a frozen vocabulary.
func NewAssembler(vocab []string) *Assembler {
	index := make(map[string]int, len(vocab))
	for i, token := range vocab {
		index[token] = i
	}
	return &Assembler{
		columns:    FeatureColumns(vocab),
		vocabIndex: index,
	}
}

// Columns returns the ordered feature column names.
func (a *Assembler) Columns() []string {
	return slices.Clone(a.columns)
}

// Width returns the feature vector length: the two categorical columns plus
// one column per vocabulary token.
func (a *Assembler) Width() int {
	return len(a.columns)
}

// Vector assembles a feature vector from encoded categorical codes and a
// set of normalized skill tokens. Tokens outside the vocabulary contribute
// nothing.
func (a *Assembler) Vector(qualificationCode, experienceCode int, skills []string) []float64 {
	x := make([]float64, len(a.columns))
	x[0] = float64(qualificationCode)
	x[1] = float64(experienceCode)

	for _, token := range skills {
		if i, ok := a.vocabIndex[token]; ok {
			x[categoricalColumns+i] = 1
		}
	}
	return x
}

// BuildVocabulary scans the raw skill column of a dataset and returns the
// sorted, deduplicated set of normalized skill tokens. The sort fixes the
// feature-column order for the lifetime of the artifact.
func BuildVocabulary(skillRows []string) []string {
	distinct := make(map[string]bool)
	for _, row := range skillRows {
		for _, token := range SplitSkills(row) {
			distinct[token] = true
		}
	}

	vocab := make([]string, 0, len(distinct))
	for token := range distinct {
		vocab = append(vocab, token)
	}
	slices.Sort(vocab)
	return vocab
}
