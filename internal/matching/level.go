package matching

import (
	"fmt"
	"strings"
)

// Level is an ordinal proficiency rating. Comparisons and gap
// magnitudes are defined on the underlying integer value.
type Level int

const (
	LevelNone Level = iota
	LevelNovice
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

var levelNames = map[Level]string{
	LevelNone:         "none",
	LevelNovice:       "novice",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced",
	LevelExpert:       "expert",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid reports whether the level is inside the defined range.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelExpert
}

// ParseLevel converts a level name or its numeric form into a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if s == name {
			return l, nil
		}
	}
	switch s {
	case "0", "1", "2", "3", "4":
		return Level(s[0] - '0'), nil
	}
	return LevelNone, fmt.Errorf("unknown proficiency level %q", s)
}
