package ranking

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spigell/skillmatcher/internal/matching"
)

type minScoreFilter struct {
	min float64
}

// NewMinScore creates a filter that drops results scoring below min.
func NewMinScore(min float64) Filter {
	return &minScoreFilter{min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(ranked []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	initial := len(ranked)
	kept := make([]matching.RankedMatch, 0, initial)
	for _, m := range ranked {
		if m.Result.Score >= f.min {
			kept = append(kept, m)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type viableOnlyFilter struct{}

// NewViableOnly creates a filter that drops results disqualified by a
// mandatory requirement failure.
func NewViableOnly() Filter {
	return &viableOnlyFilter{}
}

func (f *viableOnlyFilter) Name() string { return "viable_only" }

func (f *viableOnlyFilter) Apply(ranked []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	initial := len(ranked)
	kept := make([]matching.RankedMatch, 0, initial)
	for _, m := range ranked {
		if m.Result.Viable() {
			kept = append(kept, m)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes ids listed in a YAML
// exclude file (an `exclude:` list of candidate or role ids).
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: path}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Apply(ranked []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	initial := len(ranked)
	if f.path == "" {
		return ranked, Step{Initial: initial, Left: initial}, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("reading exclude file: %w", err)
	}

	var file struct {
		Exclude []string `yaml:"exclude"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, Step{}, fmt.Errorf("parsing exclude file %q: %w", f.path, err)
	}

	excluded := make(map[string]struct{}, len(file.Exclude))
	for _, id := range file.Exclude {
		excluded[id] = struct{}{}
	}

	kept := make([]matching.RankedMatch, 0, initial)
	for _, m := range ranked {
		if _, ok := excluded[m.ID]; !ok {
			kept = append(kept, m)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
