package engine

import (
	"fmt"
	"slices"
)

// Encoder is a bidirectional mapping between normalized string labels and
// dense integer codes for one categorical field. Codes follow the
// lexicographic order of the distinct labels, so refitting on the same data
// reproduces the same assignment. An Encoder is immutable after Fit.
type Encoder struct {
	Labels []string

	index map[string]int
}

// FitEncoder builds an Encoder over the distinct normalized values observed
// in training data. Extra labels are merged in before code assignment; the
// qualification and experience encoders use this to guarantee the fallback
// label exists.
func FitEncoder(values []string, extra ...string) *Encoder {
	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		distinct[v] = true
	}
	for _, v := range extra {
		distinct[v] = true
	}

	labels := make([]string, 0, len(distinct))
	for v := range distinct {
		labels = append(labels, v)
	}
	slices.Sort(labels)

	e := &Encoder{Labels: labels}
	e.reindex()
	return e
}

// Encode returns the code for a known label.
func (e *Encoder) Encode(label string) (int, bool) {
	code, ok := e.index[label]
	return code, ok
}

// SafeEncode returns the code for label, falling back to the code for
// FallbackLabel when the label was not seen at training time.
func (e *Encoder) SafeEncode(label string) int {
	if code, ok := e.index[label]; ok {
		return code
	}
	return e.index[FallbackLabel]
}

// Decode returns the label for a code assigned at fit time.
func (e *Encoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Labels) {
		return "", fmt.Errorf("code %d out of range for %d labels", code, len(e.Labels))
	}
	return e.Labels[code], nil
}

// Size returns the number of distinct labels.
func (e *Encoder) Size() int {
	return len(e.Labels)
}

// reindex rebuilds the label lookup. Called at fit time and after the
// encoder is deserialized from an artifact, so lookups never race.
func (e *Encoder) reindex() {
	e.index = make(map[string]int, len(e.Labels))
	for i, label := range e.Labels {
		e.index[label] = i
	}
}

// Encoders bundles the three categorical encoders frozen into an artifact.
type Encoders struct {
	Qualification   *Encoder
	ExperienceLevel *Encoder
	JobRole         *Encoder
}
