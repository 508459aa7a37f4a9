package matching

import (
	"errors"
	"fmt"
)

// ErrEmptyRequirements is returned when a match is requested against a
// requirement set with no entries: the score would be undefined, not
// zero.
var ErrEmptyRequirements = errors.New("requirement set has no entries")

// Requirement is one skill a role asks for, with a relative weight and
// a mandatory flag. Failing a mandatory requirement disqualifies the
// match regardless of the aggregate score.
type Requirement struct {
	SkillID   string  `yaml:"skill" mapstructure:"skill"`
	Level     Level   `yaml:"level" mapstructure:"level"`
	Weight    float64 `yaml:"weight" mapstructure:"weight"`
	Mandatory bool    `yaml:"mandatory" mapstructure:"mandatory"`
}

// RequirementSet is the ordered list of requirements for one role.
// Skill ids must be unique within the set.
type RequirementSet struct {
	RoleID       string        `yaml:"id" mapstructure:"id"`
	Requirements []Requirement `yaml:"requirements" mapstructure:"requirements"`
}

// Validate checks structural invariants: unique skill ids, positive
// weights and requirement levels inside the novice..expert range.
func (s *RequirementSet) Validate() error {
	seen := make(map[string]struct{}, len(s.Requirements))
	for _, req := range s.Requirements {
		if req.SkillID == "" {
			return fmt.Errorf("role %q: requirement with empty skill id", s.RoleID)
		}
		if _, ok := seen[req.SkillID]; ok {
			return fmt.Errorf("role %q: duplicate requirement for skill %q", s.RoleID, req.SkillID)
		}
		seen[req.SkillID] = struct{}{}

		if req.Weight <= 0 {
			return fmt.Errorf("role %q: requirement %q has non-positive weight %v", s.RoleID, req.SkillID, req.Weight)
		}
		if req.Level < LevelNovice || req.Level > LevelExpert {
			return fmt.Errorf("role %q: requirement %q has level %s outside novice..expert", s.RoleID, req.SkillID, req.Level)
		}
	}
	return nil
}
