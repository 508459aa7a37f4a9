package matching

import (
	"sort"
	"time"

	"github.com/spigell/skillmatcher/internal/taxonomy"
)

// Class is the per-requirement outcome of a match.
type Class string

const (
	// ClassMet means a related skill is held at the required level.
	ClassMet Class = "met"
	// ClassOvermatch means the effective level exceeds the required one
	// by at least one step. Tracked separately: overmatch can signal
	// under-utilization risk, not just surplus.
	ClassOvermatch Class = "overmatch"
	// ClassUndermatch means a related skill is held below the required
	// level.
	ClassUndermatch Class = "undermatch"
	// ClassMissing means no related skill is held at all.
	ClassMissing Class = "missing"
)

// Assessment is the classification of one requirement against the
// candidate profile. Held is the effective level after taxonomy
// substitution; Via names the held skill that supplied it.
type Assessment struct {
	SkillID   string            `json:"skill_id"`
	Required  Level             `json:"required"`
	Held      Level             `json:"held"`
	Via       string            `json:"via,omitempty"`
	Relation  taxonomy.Relation `json:"relation"`
	Weight    float64           `json:"weight"`
	Mandatory bool              `json:"mandatory"`
	Class     Class             `json:"class"`
}

// MatchResult is the outcome of comparing one candidate profile
// against one role requirement set. Computed on demand and never
// persisted here; the caller owns storage.
type MatchResult struct {
	CandidateID       string       `json:"candidate_id"`
	RoleID            string       `json:"role_id"`
	Score             float64      `json:"score"`
	Assessments       []Assessment `json:"assessments"`
	MandatoryFailures []string     `json:"mandatory_failures,omitempty"`
	ComputedAt        time.Time    `json:"computed_at"`
}

// Viable reports whether no mandatory requirement failed.
func (r *MatchResult) Viable() bool { return len(r.MandatoryFailures) == 0 }

// ComputeMatch scores a normalized candidate profile against a role
// requirement set using the taxonomy substitution rules: equivalents
// and held descendants transfer proficiency in full, a held ancestor
// satisfies a narrower requirement at one level less, reflecting that
// broad competence imperfectly predicts narrow competence.
//
// Mandatory shortfalls populate MandatoryFailures but the score is
// still reported in full, so gap analysis always has a complete
// picture; excluding disqualified matches is the caller's policy.
func ComputeMatch(candidateID string, profile Profile, set RequirementSet, snap *taxonomy.Snapshot) (*MatchResult, error) {
	if len(set.Requirements) == 0 {
		return nil, ErrEmptyRequirements
	}

	result := &MatchResult{
		CandidateID: candidateID,
		RoleID:      set.RoleID,
		Assessments: make([]Assessment, 0, len(set.Requirements)),
		ComputedAt:  time.Now().UTC(),
	}

	held := sortedSkills(profile)

	var weightSum, scoreSum float64
	for _, req := range set.Requirements {
		a := assess(req, profile, held, snap)
		result.Assessments = append(result.Assessments, a)

		weightSum += req.Weight
		scoreSum += req.Weight * ratio(a.Held, req.Level)

		if req.Mandatory && a.Held < req.Level {
			result.MandatoryFailures = append(result.MandatoryFailures, req.SkillID)
		}
	}

	if weightSum > 0 {
		result.Score = scoreSum / weightSum
	}
	if result.Score > 1 {
		result.Score = 1
	}
	if result.Score < 0 {
		result.Score = 0
	}

	return result, nil
}

// assess finds the best effective level any held skill provides for the
// requirement. Held skills are scanned in sorted order so ties resolve
// to the smallest skill id deterministically.
func assess(req Requirement, profile Profile, held []string, snap *taxonomy.Snapshot) Assessment {
	a := Assessment{
		SkillID:   req.SkillID,
		Required:  req.Level,
		Weight:    req.Weight,
		Mandatory: req.Mandatory,
		Class:     ClassMissing,
	}

	reqID := snap.Canonical(req.SkillID)
	related := false

	for _, h := range held {
		rel := relationTo(h, reqID, snap)
		if rel == taxonomy.RelationNone {
			continue
		}
		related = true

		eff := profile[h]
		if rel == taxonomy.RelationBroader && eff > LevelNone {
			eff-- // one level of generality penalty
		}
		if eff > a.Held {
			a.Held = eff
			a.Via = h
			a.Relation = rel
		}
	}

	switch {
	case !related:
		a.Class = ClassMissing
	case a.Held > req.Level:
		a.Class = ClassOvermatch
	case a.Held == req.Level:
		a.Class = ClassMet
	default:
		a.Class = ClassUndermatch
	}
	return a
}

// relationTo handles requirement ids outside the taxonomy: they can
// still be satisfied by an exact profile entry, never by substitution.
func relationTo(held, reqID string, snap *taxonomy.Snapshot) taxonomy.Relation {
	if held == reqID {
		return taxonomy.RelationExact
	}
	return snap.Relation(held, reqID)
}

func ratio(held, required Level) float64 {
	if required <= LevelNone {
		return 1
	}
	if held >= required {
		return 1
	}
	if held <= LevelNone {
		return 0
	}
	return float64(held) / float64(required)
}

func sortedSkills(profile Profile) []string {
	out := make([]string, 0, len(profile))
	for id := range profile {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
