// Package engine implements the job-role prediction core: dataset parsing,
// feature engineering, random-forest training, attribution-based explanation,
// and the persisted artifact bundle that serves inference.
//
// The engine is deliberately free of transport and persistence concerns.
// Domain modules feed it datasets and candidate attributes; it hands back
// artifacts and ranked, explained predictions.
package engine

import "strings"

// FallbackLabel is the categorical value unseen qualification and
// experience inputs are mapped to at inference time.
const FallbackLabel = "other"

// Normalize canonicalizes a raw text value: surrounding whitespace is
// trimmed and the result is lower-cased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitSkills splits a comma-delimited skill list into normalized tokens.
// Empty tokens are discarded.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := Normalize(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// NormalizeSkills normalizes explicit skill tokens, discarding empty values
// and duplicates while preserving input order.
func NormalizeSkills(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, raw := range tokens {
		t := Normalize(raw)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
