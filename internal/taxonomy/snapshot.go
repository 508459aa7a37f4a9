package taxonomy

import "sort"

type stringSet map[string]struct{}

func (s stringSet) add(v string)      { s[v] = struct{}{} }
func (s stringSet) has(v string) bool { _, ok := s[v]; return ok }

func (s stringSet) addAll(o stringSet) {
	for v := range o {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Snapshot is an immutable view of the skills taxonomy with closure sets
// precomputed at build time. All query methods are safe for concurrent
// use; a snapshot is never mutated after Build returns it.
type Snapshot struct {
	skills      map[string]Skill
	ancestors   map[string]stringSet
	descendants map[string]stringSet
	equivalents map[string]stringSet
	canonical   map[string]string

	// class-level closures, keyed by canonical id, so relation checks
	// see through equivalence classes.
	classAncestors   map[string]stringSet
	classDescendants map[string]stringSet
	classParents     map[string]stringSet
}

// Len returns the number of skills in the snapshot.
func (s *Snapshot) Len() int { return len(s.skills) }

// Contains reports whether the skill id exists in the taxonomy.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.skills[id]
	return ok
}

// Skill returns the validated entry for the given id.
func (s *Snapshot) Skill(id string) (Skill, bool) {
	sk, ok := s.skills[id]
	return sk, ok
}

// Ancestors returns all transitive parents of the skill, sorted. Empty
// for roots and for unknown ids.
func (s *Snapshot) Ancestors(id string) []string {
	return s.ancestors[id].sorted()
}

// Descendants returns all transitive children of the skill, sorted.
func (s *Snapshot) Descendants(id string) []string {
	return s.descendants[id].sorted()
}

// EquivalentTo returns the full equivalence class of the skill,
// including the skill itself. Empty for unknown ids.
func (s *Snapshot) EquivalentTo(id string) []string {
	return s.equivalents[id].sorted()
}

// Canonical returns the stable representative id of the skill's
// equivalence class (the lexicographically smallest member). Unknown
// ids are returned unchanged.
func (s *Snapshot) Canonical(id string) string {
	if c, ok := s.canonical[id]; ok {
		return c
	}
	return id
}

// IsRelated reports whether the two skills are the same, share an
// equivalence class, or sit on the same ancestor/descendant chain.
func (s *Snapshot) IsRelated(a, b string) bool {
	return s.Relation(a, b) != RelationNone
}

// Relation classifies how a held skill relates to a required one,
// looking through equivalence classes on both sides.
func (s *Snapshot) Relation(held, required string) Relation {
	if !s.Contains(held) || !s.Contains(required) {
		return RelationNone
	}

	ch := s.canonical[held]
	cr := s.canonical[required]
	if ch == cr {
		return RelationExact
	}
	if s.classAncestors[ch].has(cr) {
		return RelationNarrower
	}
	if s.classDescendants[ch].has(cr) {
		return RelationBroader
	}
	return RelationNone
}

// SharesParent reports whether the two skills are siblings: distinct
// equivalence classes with at least one direct parent class in common.
func (s *Snapshot) SharesParent(a, b string) bool {
	if !s.Contains(a) || !s.Contains(b) {
		return false
	}
	ca := s.canonical[a]
	cb := s.canonical[b]
	if ca == cb {
		return false
	}
	for p := range s.classParents[ca] {
		if s.classParents[cb].has(p) {
			return true
		}
	}
	return false
}

// IDs returns every skill id in the snapshot, sorted.
func (s *Snapshot) IDs() []string {
	out := make([]string, 0, len(s.skills))
	for id := range s.skills {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
