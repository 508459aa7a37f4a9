package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/skillmatcher/internal/matching"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadTaxonomy(t *testing.T) {
	path := writeFile(t, "taxonomy.yaml", `
skills:
  - id: programming
    name: Programming
  - id: go
    name: Go
    category: languages
    parents: [programming]
  - id: golang
    name: Golang
    equivalent_to: [go]
`)

	records, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].ID != "go" || records[1].Category != "languages" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
	if len(records[1].Parents) != 1 || records[1].Parents[0] != "programming" {
		t.Fatalf("unexpected parents: %v", records[1].Parents)
	}
	if len(records[2].EquivalentTo) != 1 || records[2].EquivalentTo[0] != "go" {
		t.Fatalf("unexpected equivalents: %v", records[2].EquivalentTo)
	}
}

func TestLoadCandidatesParsesLevels(t *testing.T) {
	path := writeFile(t, "candidates.yaml", `
candidates:
  - id: alice
    name: Alice
    skills:
      - skill: go
        level: advanced
      - skill: python
        level: 1
`)

	candidates, err := LoadCandidates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	alice, ok := FindCandidate(candidates, "alice")
	if !ok {
		t.Fatalf("candidate not found")
	}
	if len(alice.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(alice.Skills))
	}
	if alice.Skills[0].Level != matching.LevelAdvanced {
		t.Fatalf("level name not parsed: %s", alice.Skills[0].Level)
	}
	if alice.Skills[1].Level != matching.LevelNovice {
		t.Fatalf("numeric level not parsed: %s", alice.Skills[1].Level)
	}
}

func TestLoadCandidatesRejectsBadLevels(t *testing.T) {
	path := writeFile(t, "candidates.yaml", `
candidates:
  - id: alice
    skills:
      - skill: go
        level: guru
`)

	if _, err := LoadCandidates(path); err == nil {
		t.Fatalf("expected an error for an unknown level name")
	}
}

func TestLoadRoles(t *testing.T) {
	path := writeFile(t, "roles.yaml", `
roles:
  - id: backend-eng
    title: Backend Engineer
    department: Platform
    requirements:
      - skill: go
        level: advanced
        weight: 3
        mandatory: true
      - skill: python
        level: intermediate
        weight: 1.5
`)

	roles, err := LoadRoles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	role, ok := FindRole(roles, "backend-eng")
	if !ok {
		t.Fatalf("role not found")
	}
	if role.Title != "Backend Engineer" || role.Department != "Platform" {
		t.Fatalf("unexpected role metadata: %+v", role)
	}
	if err := role.Validate(); err != nil {
		t.Fatalf("loaded role failed validation: %v", err)
	}

	reqs := role.Requirements
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if !reqs[0].Mandatory || reqs[0].Weight != 3 {
		t.Fatalf("unexpected first requirement: %+v", reqs[0])
	}
	if reqs[1].Level != matching.LevelIntermediate || reqs[1].Weight != 1.5 {
		t.Fatalf("unexpected second requirement: %+v", reqs[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadTaxonomy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestFindMisses(t *testing.T) {
	if _, ok := FindCandidate(nil, "ghost"); ok {
		t.Fatalf("expected a miss on an empty slice")
	}
	if _, ok := FindRole([]Role{}, "ghost"); ok {
		t.Fatalf("expected a miss on an empty slice")
	}
}
