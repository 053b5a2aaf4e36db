package engine

// Artifact is the deployable unit produced by one training run: the trained
// classifier, the frozen feature-column order, the skill vocabulary, and the
// three categorical encoders. The explainer and the feature assembler are
// derived state, rebuilt whenever an artifact is constructed or loaded, so
// only the frozen fields are serialized.
type Artifact struct {
	Classifier  *Forest
	FeatureCols []string
	Vocabulary  []string
	Encoders    Encoders

	explainer Explainer
	assembler *Assembler
}

// Explainer returns the attribution engine bound to the artifact's classifier.
func (a *Artifact) Explainer() Explainer {
	return a.explainer
}

// finalize rebuilds derived state after construction or deserialization:
// encoder lookup indexes, the feature assembler, and the explainer.
func (a *Artifact) finalize() {
	a.Encoders.Qualification.reindex()
	a.Encoders.ExperienceLevel.reindex()
	a.Encoders.JobRole.reindex()
	a.assembler = NewAssembler(a.Vocabulary)
	a.explainer = NewTreeExplainer(a.Classifier)
}

// Metadata is the human-readable companion document to an artifact. It
// retains the original-case distinct values observed before normalization,
// for populating client-facing selection inputs. It is intentionally not
// derived from the artifact's vocabulary, where case has been discarded.
type Metadata struct {
	Qualification   []string `json:"qualification"`
	ExperienceLevel []string `json:"experience_level"`
	Skills          []string `json:"skills"`
}
