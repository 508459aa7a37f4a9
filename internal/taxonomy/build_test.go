package taxonomy

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

func testRecords() []SkillRecord {
	return []SkillRecord{
		{ID: "programming", Name: "Programming"},
		{ID: "backend", Name: "Backend Development", Parents: []string{"programming"}},
		{ID: "frontend", Name: "Frontend Development", Parents: []string{"programming"}},
		{ID: "go", Name: "Go", Parents: []string{"backend"}},
		{ID: "golang", Name: "Golang", EquivalentTo: []string{"go"}},
		{ID: "python", Name: "Python", Parents: []string{"backend"}},
		{ID: "react", Name: "React", Parents: []string{"frontend"}},
	}
}

func buildSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	snap, err := Build(testRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return snap
}

func TestBuildClosures(t *testing.T) {
	snap := buildSnapshot(t)

	if snap.Len() != 7 {
		t.Fatalf("expected 7 skills, got %d", snap.Len())
	}

	ancestors := snap.Ancestors("go")
	if len(ancestors) != 2 || ancestors[0] != "backend" || ancestors[1] != "programming" {
		t.Fatalf("unexpected ancestors of go: %v", ancestors)
	}

	descendants := snap.Descendants("programming")
	if len(descendants) != 5 {
		t.Fatalf("expected 5 descendants of programming, got %v", descendants)
	}

	if got := snap.Ancestors("programming"); len(got) != 0 {
		t.Fatalf("expected root to have no ancestors, got %v", got)
	}

	if got := snap.Ancestors("nope"); len(got) != 0 {
		t.Fatalf("expected empty ancestors for unknown id, got %v", got)
	}
}

func TestBuildEquivalence(t *testing.T) {
	snap := buildSnapshot(t)

	class := snap.EquivalentTo("golang")
	if len(class) != 2 || class[0] != "go" || class[1] != "golang" {
		t.Fatalf("unexpected equivalence class: %v", class)
	}

	if got := snap.Canonical("golang"); got != "go" {
		t.Fatalf("expected canonical go, got %q", got)
	}
	if got := snap.Canonical("go"); got != "go" {
		t.Fatalf("expected canonical to be stable, got %q", got)
	}
	if got := snap.Canonical("nope"); got != "nope" {
		t.Fatalf("expected unknown id unchanged, got %q", got)
	}

	// The synonym inherits the class's position in the graph even
	// though it declares no parents of its own.
	if rel := snap.Relation("golang", "backend"); rel != RelationNarrower {
		t.Fatalf("expected narrower via equivalence, got %s", rel)
	}
}

func TestRelation(t *testing.T) {
	snap := buildSnapshot(t)

	cases := []struct {
		held     string
		required string
		want     Relation
	}{
		{"go", "go", RelationExact},
		{"golang", "go", RelationExact},
		{"go", "backend", RelationNarrower},
		{"backend", "go", RelationBroader},
		{"backend", "golang", RelationBroader},
		{"go", "react", RelationNone},
		{"go", "python", RelationNone},
		{"nope", "go", RelationNone},
		{"go", "nope", RelationNone},
	}

	for _, tc := range cases {
		if got := snap.Relation(tc.held, tc.required); got != tc.want {
			t.Fatalf("Relation(%s, %s) = %s, want %s", tc.held, tc.required, got, tc.want)
		}
	}

	if !snap.IsRelated("go", "programming") {
		t.Fatalf("expected go related to programming")
	}
	if snap.IsRelated("go", "react") {
		t.Fatalf("expected go unrelated to react")
	}
}

func TestSharesParent(t *testing.T) {
	snap := buildSnapshot(t)

	if !snap.SharesParent("go", "python") {
		t.Fatalf("expected go and python to be siblings")
	}
	if !snap.SharesParent("golang", "python") {
		t.Fatalf("expected the synonym to inherit sibling relations")
	}
	if snap.SharesParent("go", "react") {
		t.Fatalf("go and react have no common parent")
	}
	if snap.SharesParent("go", "golang") {
		t.Fatalf("members of one class are not siblings")
	}
}

func TestBuildCycle(t *testing.T) {
	records := []SkillRecord{
		{ID: "a", Parents: []string{"c"}},
		{ID: "b", Parents: []string{"a"}},
		{ID: "c", Parents: []string{"b"}},
		{ID: "ok"},
	}

	_, err := Build(records)
	if err == nil {
		t.Fatalf("expected a cycle error")
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
	if len(cycleErr.Members) != 3 || cycleErr.Members[0] != "a" || cycleErr.Members[2] != "c" {
		t.Fatalf("unexpected cycle members: %v", cycleErr.Members)
	}
}

func TestBuildUnknownReferences(t *testing.T) {
	records := []SkillRecord{
		{ID: "a", Parents: []string{"ghost"}},
		{ID: "b", EquivalentTo: []string{"phantom"}},
	}

	_, err := Build(records)
	if err == nil {
		t.Fatalf("expected unknown reference errors")
	}

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 aggregated errors, got %d: %v", len(errs), err)
	}

	var refErr *UnknownReferenceError
	if !errors.As(errs[0], &refErr) {
		t.Fatalf("expected *UnknownReferenceError, got %T", errs[0])
	}
	if refErr.SkillID != "a" || refErr.Ref != "ghost" || refErr.Edge != "parent" {
		t.Fatalf("unexpected reference error: %+v", refErr)
	}
}

func TestBuildDuplicateAndEmptyIDs(t *testing.T) {
	if _, err := Build([]SkillRecord{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := Build([]SkillRecord{{ID: "  ", Name: "blank"}}); err == nil {
		t.Fatalf("expected empty id error")
	}
}
