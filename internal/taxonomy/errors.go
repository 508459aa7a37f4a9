package taxonomy

import (
	"fmt"
	"strings"
)

// CycleError is returned by Build when the parent relation contains a
// cycle. Members lists the skill ids still unresolved after the
// topological pass, which always includes every skill on the cycle.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("taxonomy parent graph contains a cycle involving: %s", strings.Join(e.Members, ", "))
}

// UnknownReferenceError is returned by Build when a parent or
// equivalence edge points at a skill id that does not exist.
type UnknownReferenceError struct {
	SkillID string
	Ref     string
	Edge    string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("skill %q references unknown skill %q via %s", e.SkillID, e.Ref, e.Edge)
}
