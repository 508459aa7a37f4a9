package matching

import (
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

// Entry is one raw (skill id, proficiency) pair as reported for a
// candidate or extracted from a resume. Entries may repeat skills or
// use different members of the same equivalence class.
type Entry struct {
	SkillID string `yaml:"skill" mapstructure:"skill"`
	Level   Level  `yaml:"level" mapstructure:"level"`
}

// Profile maps canonical skill ids to proficiency levels.
type Profile map[string]Level

// NormalizedProfile is the output of Normalize: a canonical profile
// plus the number of entries dropped because their skill id is not in
// the taxonomy.
type NormalizedProfile struct {
	Levels  Profile
	Dropped int
}

// Normalize collapses raw entries into a canonical profile. Each
// equivalence class appears once under its canonical id, keeping the
// maximum level observed across all entries mapping to it: the
// strongest evidenced entry is taken as the subject's true competence.
// Unknown skill ids are dropped and counted, never merged into another
// skill.
func Normalize(raw []Entry, snap *taxonomy.Snapshot) NormalizedProfile {
	out := NormalizedProfile{Levels: make(Profile, len(raw))}
	for _, e := range raw {
		if !snap.Contains(e.SkillID) {
			out.Dropped++
			continue
		}
		level := e.Level
		if level < LevelNone {
			level = LevelNone
		}
		if level > LevelExpert {
			level = LevelExpert
		}
		canon := snap.Canonical(e.SkillID)
		if level > out.Levels[canon] {
			out.Levels[canon] = level
		}
	}
	return out
}
