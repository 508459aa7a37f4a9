package matching

import (
	"container/heap"
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatcher/internal/taxonomy"
)

// Candidate pairs a candidate id with its normalized profile.
type Candidate struct {
	ID      string
	Profile Profile
}

// RankedMatch is one entry of a top-K ranking.
type RankedMatch struct {
	ID     string
	Result *MatchResult
}

// RankCandidatesForRole evaluates every candidate against the role and
// returns the top k results by score, descending, ties broken by
// candidate id ascending. Pair evaluations are independent and fan out
// across a bounded worker pool; cancellation is checked per pair so an
// aborted bulk request stops promptly. k <= 0 ranks everyone.
func RankCandidatesForRole(ctx context.Context, set RequirementSet, candidates []Candidate, k int, snap *taxonomy.Snapshot, workers int) ([]RankedMatch, error) {
	if len(set.Requirements) == 0 {
		return nil, ErrEmptyRequirements
	}

	top := newTopK(k, len(candidates))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))

	for _, cand := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := ComputeMatch(cand.ID, cand.Profile, set, snap)
			if err != nil {
				return err
			}
			mu.Lock()
			top.offer(RankedMatch{ID: cand.ID, Result: result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return top.ranked(), nil
}

// RankRolesForCandidate is the symmetric case: one profile against many
// requirement sets. A malformed (empty) requirement set fails only its
// own comparison: it is skipped and counted, never aborting sibling
// comparisons in the same run.
func RankRolesForCandidate(ctx context.Context, candidateID string, profile Profile, roles []RequirementSet, k int, snap *taxonomy.Snapshot, workers int) (ranked []RankedMatch, skipped int, err error) {
	top := newTopK(k, len(roles))
	var mu sync.Mutex
	var skippedCount int

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))

	for _, role := range roles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := ComputeMatch(candidateID, profile, role, snap)
			if err != nil {
				mu.Lock()
				skippedCount++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			top.offer(RankedMatch{ID: role.RoleID, Result: result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return top.ranked(), skippedCount, nil
}

func workerLimit(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// topK keeps the best k entries seen so far in a bounded min-heap so
// large inputs never need a full sort. The root is always the worst
// retained entry.
type topK struct {
	k     int
	items []RankedMatch
}

func newTopK(k, n int) *topK {
	if k <= 0 || k > n {
		k = n
	}
	return &topK{k: k, items: make([]RankedMatch, 0, k)}
}

func (t *topK) offer(m RankedMatch) {
	if t.k == 0 {
		return
	}
	if len(t.items) < t.k {
		heap.Push((*rankedHeap)(t), m)
		return
	}
	if !worse(t.items[0], m) {
		return
	}
	t.items[0] = m
	heap.Fix((*rankedHeap)(t), 0)
}

func (t *topK) ranked() []RankedMatch {
	out := append([]RankedMatch(nil), t.items...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Result.Score != out[j].Result.Score {
			return out[i].Result.Score > out[j].Result.Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// worse orders entries for eviction: lower score first, then larger id,
// keeping the final tie-break deterministic.
func worse(a, b RankedMatch) bool {
	if a.Result.Score != b.Result.Score {
		return a.Result.Score < b.Result.Score
	}
	return a.ID > b.ID
}

type rankedHeap topK

func (h *rankedHeap) Len() int           { return len(h.items) }
func (h *rankedHeap) Less(i, j int) bool { return worse(h.items[i], h.items[j]) }
func (h *rankedHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *rankedHeap) Push(x any)         { h.items = append(h.items, x.(RankedMatch)) }
func (h *rankedHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
