// Package source loads taxonomy, candidate and role datasets from
// YAML files. It owns no matching semantics: files are decoded into
// the plain data values the core consumes.
package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spigell/skillmatcher/internal/matching"
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

// Candidate is one person record from a candidates file. Skills are
// raw entries; normalization happens in the matching core.
type Candidate struct {
	ID     string           `mapstructure:"id"`
	Name   string           `mapstructure:"name"`
	Skills []matching.Entry `mapstructure:"skills"`
}

// Role is one role record from a roles file.
type Role struct {
	matching.RequirementSet `mapstructure:",squash"`
	Title                   string `mapstructure:"title"`
	Department              string `mapstructure:"department"`
}

// LoadTaxonomy reads the skills taxonomy records from a YAML file.
// The records are not validated here; taxonomy.Build owns that.
func LoadTaxonomy(path string) ([]taxonomy.SkillRecord, error) {
	raw, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Skills []taxonomy.SkillRecord `mapstructure:"skills"`
	}
	if err := decode(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding taxonomy file %q: %w", path, err)
	}
	return file.Skills, nil
}

// LoadCandidates reads candidate profiles from a YAML file.
func LoadCandidates(path string) ([]Candidate, error) {
	raw, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Candidates []Candidate `mapstructure:"candidates"`
	}
	if err := decode(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding candidates file %q: %w", path, err)
	}
	return file.Candidates, nil
}

// LoadRoles reads role requirement sets from a YAML file.
func LoadRoles(path string) ([]Role, error) {
	raw, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Roles []Role `mapstructure:"roles"`
	}
	if err := decode(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding roles file %q: %w", path, err)
	}
	return file.Roles, nil
}

// FindCandidate returns the candidate with the given id.
func FindCandidate(candidates []Candidate, id string) (Candidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// FindRole returns the role with the given id.
func FindRole(roles []Role, id string) (Role, bool) {
	for _, r := range roles {
		if r.RoleID == id {
			return r, true
		}
	}
	return Role{}, false
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return raw, nil
}
