package matching

import (
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

// Rationale explains why a recommendation step was suggested.
type Rationale string

const (
	// RationaleBridge means the candidate already holds a taxonomy
	// neighbor of the gap skill, so the step should be cheaper.
	RationaleBridge Rationale = "bridge_from_neighbor"
	// RationaleScratch means no related footing exists.
	RationaleScratch Rationale = "acquire_from_scratch"
)

const (
	weeksPerLevelBridge  = 2
	weeksPerLevelScratch = 3
)

// Recommendation is one step of the learning path derived from a gap.
type Recommendation struct {
	SkillID        string    `json:"skill_id"`
	Rationale      Rationale `json:"rationale"`
	BridgeFrom     string    `json:"bridge_from,omitempty"`
	Priority       int       `json:"priority"`
	EstimatedWeeks int       `json:"estimated_weeks"`
}

// Recommend turns gaps into a prioritized learning path. The order
// mirrors the gap severity order; this stage only enriches each gap
// with a taxonomy-informed rationale and an effort estimate. A gap is
// bridgeable when the candidate already has partial proficiency in the
// skill, or holds an ancestor or a sibling of it.
func Recommend(gaps []Gap, profile Profile, snap *taxonomy.Snapshot) []Recommendation {
	held := sortedSkills(profile)

	steps := make([]Recommendation, 0, len(gaps))
	for i, gap := range gaps {
		step := Recommendation{
			SkillID:        gap.SkillID,
			Priority:       i + 1,
			Rationale:      RationaleScratch,
			EstimatedWeeks: int(gap.Required) * weeksPerLevelScratch,
		}

		if from, ok := bridge(gap, profile, held, snap); ok {
			step.Rationale = RationaleBridge
			step.BridgeFrom = from
			step.EstimatedWeeks = int(gap.Required-gap.Held) * weeksPerLevelBridge
		}

		steps = append(steps, step)
	}
	return steps
}

func bridge(gap Gap, profile Profile, held []string, snap *taxonomy.Snapshot) (string, bool) {
	canon := snap.Canonical(gap.SkillID)
	if profile[canon] > LevelNone {
		return canon, true
	}
	for _, h := range held {
		if snap.Relation(h, canon) == taxonomy.RelationBroader || snap.SharesParent(h, canon) {
			return h, true
		}
	}
	return "", false
}
