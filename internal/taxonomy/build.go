package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Build validates the records and constructs an immutable snapshot with
// all closure sets precomputed. It fails with a *CycleError when the
// parent relation is cyclic and with aggregated *UnknownReferenceError
// values when edges point at nonexistent skills. No snapshot is
// produced on failure.
func Build(records []SkillRecord) (*Snapshot, error) {
	skills := make(map[string]Skill, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("skill record %q has an empty id", rec.Name)
		}
		if _, ok := skills[id]; ok {
			return nil, fmt.Errorf("duplicate skill id %q", id)
		}
		skills[id] = Skill{
			ID:       id,
			Name:     rec.Name,
			Category: rec.Category,
			Parents:  append([]string(nil), rec.Parents...),
		}
	}

	var refErrs error
	for _, rec := range records {
		for _, p := range rec.Parents {
			if _, ok := skills[p]; !ok {
				refErrs = multierr.Append(refErrs, &UnknownReferenceError{SkillID: rec.ID, Ref: p, Edge: "parent"})
			}
		}
		for _, eq := range rec.EquivalentTo {
			if _, ok := skills[eq]; !ok {
				refErrs = multierr.Append(refErrs, &UnknownReferenceError{SkillID: rec.ID, Ref: eq, Edge: "equivalent_to"})
			}
		}
	}
	if refErrs != nil {
		return nil, refErrs
	}

	order, err := topoSort(skills)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		skills:           skills,
		ancestors:        make(map[string]stringSet, len(skills)),
		descendants:      make(map[string]stringSet, len(skills)),
		equivalents:      make(map[string]stringSet, len(skills)),
		canonical:        make(map[string]string, len(skills)),
		classAncestors:   make(map[string]stringSet),
		classDescendants: make(map[string]stringSet),
		classParents:     make(map[string]stringSet),
	}

	// Ancestor sets accumulate along the topological order, so each
	// skill only needs a union over its direct parents.
	for _, id := range order {
		anc := stringSet{}
		for _, p := range skills[id].Parents {
			anc.add(p)
			anc.addAll(snap.ancestors[p])
		}
		snap.ancestors[id] = anc
	}

	for id := range skills {
		snap.descendants[id] = stringSet{}
	}
	for id, anc := range snap.ancestors {
		for a := range anc {
			snap.descendants[a].add(id)
		}
	}

	buildEquivalence(records, snap)
	buildClassClosures(snap)

	return snap, nil
}

// topoSort orders skills so parents come before children, failing with
// a *CycleError when that is impossible.
func topoSort(skills map[string]Skill) ([]string, error) {
	indegree := make(map[string]int, len(skills))
	children := make(map[string][]string, len(skills))
	for id, sk := range skills {
		indegree[id] += 0
		for _, p := range sk.Parents {
			indegree[id]++
			children[p] = append(children[p], id)
		}
	}

	var queue []string
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(skills))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, c := range children[id] {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(order) != len(skills) {
		var members []string
		for id, deg := range indegree {
			if deg > 0 {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		return nil, &CycleError{Members: members}
	}
	return order, nil
}

// buildEquivalence expands the declared pairs into full classes. The
// relation is treated as symmetric and transitive regardless of which
// side declared it.
func buildEquivalence(records []SkillRecord, snap *Snapshot) {
	neighbors := make(map[string]stringSet, len(records))
	for _, rec := range records {
		if neighbors[rec.ID] == nil {
			neighbors[rec.ID] = stringSet{}
		}
		for _, eq := range rec.EquivalentTo {
			if neighbors[eq] == nil {
				neighbors[eq] = stringSet{}
			}
			neighbors[rec.ID].add(eq)
			neighbors[eq].add(rec.ID)
		}
	}

	seen := stringSet{}
	for id := range snap.skills {
		if seen.has(id) {
			continue
		}
		class := stringSet{id: struct{}{}}
		frontier := []string{id}
		for len(frontier) > 0 {
			cur := frontier[0]
			frontier = frontier[1:]
			for n := range neighbors[cur] {
				if !class.has(n) {
					class.add(n)
					frontier = append(frontier, n)
				}
			}
		}

		members := class.sorted()
		canon := members[0]
		for _, m := range members {
			seen.add(m)
			snap.equivalents[m] = class
			snap.canonical[m] = canon
		}
	}
}

// buildClassClosures lifts the per-skill closures to equivalence-class
// level so relation checks see through synonyms on both ends.
func buildClassClosures(snap *Snapshot) {
	for id := range snap.skills {
		canon := snap.canonical[id]
		if snap.classAncestors[canon] == nil {
			snap.classAncestors[canon] = stringSet{}
			snap.classDescendants[canon] = stringSet{}
			snap.classParents[canon] = stringSet{}
		}
		for a := range snap.ancestors[id] {
			snap.classAncestors[canon].add(snap.canonical[a])
		}
		for d := range snap.descendants[id] {
			snap.classDescendants[canon].add(snap.canonical[d])
		}
		for _, p := range snap.skills[id].Parents {
			snap.classParents[canon].add(snap.canonical[p])
		}
	}

	// A class is never its own ancestor, even when a synonym sits one
	// level above another member of the same class.
	for canon := range snap.classAncestors {
		delete(snap.classAncestors[canon], canon)
		delete(snap.classDescendants[canon], canon)
	}
}
