// Package ranking applies caller policy to ranked match results:
// minimum-score cutoffs, dropping disqualified candidates, exclude
// lists. The matching core reports everything; deciding what to hide
// happens here.
package ranking

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/matching"
)

// Filter represents a single filtering step applied to ranked results.
type Filter interface {
	Name() string
	Apply(ranked []matching.RankedMatch) ([]matching.RankedMatch, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, returning the
// filtered ranking. Order does not change: filters only drop entries.
func Run(logger *zap.Logger, steps []Filter, ranked []matching.RankedMatch) ([]matching.RankedMatch, error) {
	for _, step := range steps {
		next, info, err := step.Apply(ranked)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		ranked = next
	}

	return ranked, nil
}
