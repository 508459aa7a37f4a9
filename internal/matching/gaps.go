package matching

import "sort"

// Gap is one unmet or under-met requirement. Severity is the weighted
// proficiency deficit.
type Gap struct {
	SkillID   string  `json:"skill_id"`
	Required  Level   `json:"required"`
	Held      Level   `json:"held"`
	Weight    float64 `json:"weight"`
	Mandatory bool    `json:"mandatory"`
	Severity  float64 `json:"severity"`
}

// AnalyzeGaps derives the ordered gap list from a match result:
// severity descending, mandatory before optional on ties, then skill
// id ascending for determinism. Fully met and overmatched requirements
// are excluded. Pure function of its inputs.
func AnalyzeGaps(result *MatchResult, set RequirementSet) []Gap {
	byID := make(map[string]Requirement, len(set.Requirements))
	for _, req := range set.Requirements {
		byID[req.SkillID] = req
	}

	gaps := make([]Gap, 0)
	for _, a := range result.Assessments {
		if a.Held >= a.Required {
			continue
		}
		req, ok := byID[a.SkillID]
		if !ok {
			req = Requirement{SkillID: a.SkillID, Level: a.Required, Weight: a.Weight, Mandatory: a.Mandatory}
		}
		gaps = append(gaps, Gap{
			SkillID:   a.SkillID,
			Required:  req.Level,
			Held:      a.Held,
			Weight:    req.Weight,
			Mandatory: req.Mandatory,
			Severity:  req.Weight * float64(req.Level-a.Held),
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Severity != gaps[j].Severity {
			return gaps[i].Severity > gaps[j].Severity
		}
		if gaps[i].Mandatory != gaps[j].Mandatory {
			return gaps[i].Mandatory
		}
		return gaps[i].SkillID < gaps[j].SkillID
	})

	return gaps
}
