package engine

import (
	"fmt"
	"sort"
	"strings"
)

const (
	maxSkillReasons = 3
	maxTraitReasons = 2

	fallbackSkillReason = "No direct skill signals; inferred from broader pattern"
	fallbackTraitReason = "Education and experience pattern inferred from model"
)

// generateReasons converts one role's attribution scores into ordered
// natural-language justifications. Features are walked by descending
// attribution magnitude. Skill features only produce a reason when the
// candidate actually supplied the skill; a high global importance is never
// grounds to cite a skill the candidate did not list. Qualification and
// experience features decode the encoded value back to its training-time
// label. Skill reasons precede education and experience reasons, and each
// group falls back to a generic sentence when no positive signal was found.
func generateReasons(
	role string,
	contrib []float64,
	x []float64,
	cols []string,
	inputSkills map[string]bool,
	enc Encoders,
) []string {
	ranked := make([]int, len(cols))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return abs(contrib[ranked[a]]) > abs(contrib[ranked[b]])
	})

	var skillReasons, traitReasons []string

	for _, i := range ranked {
		if len(skillReasons) >= maxSkillReasons && len(traitReasons) >= maxTraitReasons {
			break
		}
		if contrib[i] <= 0 {
			continue
		}

		switch col := cols[i]; {
		case strings.HasPrefix(col, SkillColumnPrefix):
			skill := strings.TrimPrefix(col, SkillColumnPrefix)
			if len(skillReasons) < maxSkillReasons && inputSkills[skill] {
				skillReasons = append(skillReasons,
					fmt.Sprintf("%s aligned strongly with %s", skill, role))
			}

		case col == colQualification:
			if len(traitReasons) < maxTraitReasons {
				if label, err := enc.Qualification.Decode(int(x[0])); err == nil {
					traitReasons = append(traitReasons,
						fmt.Sprintf("Profiles with '%s' frequently match %s", label, role))
				}
			}

		case col == colExperienceLevel:
			if len(traitReasons) < maxTraitReasons {
				if label, err := enc.ExperienceLevel.Decode(int(x[1])); err == nil {
					traitReasons = append(traitReasons,
						fmt.Sprintf("Experience level '%s' is common among %ss", label, role))
				}
			}
		}
	}

	if len(skillReasons) == 0 {
		skillReasons = append(skillReasons, fallbackSkillReason)
	}
	if len(traitReasons) == 0 {
		traitReasons = append(traitReasons, fallbackTraitReason)
	}

	return append(skillReasons, traitReasons...)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
