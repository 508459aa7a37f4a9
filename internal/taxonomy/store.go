package taxonomy

import (
	"errors"
	"sync/atomic"
)

// ErrNoSnapshot is returned by Store.Current when no snapshot has been
// published yet.
var ErrNoSnapshot = errors.New("no taxonomy snapshot published")

// Store holds the active taxonomy snapshot. Snapshots are replaced
// wholesale: readers always see either the previous complete snapshot
// or the new one, never a partially built graph.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store, optionally seeded with an initial snapshot.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	if snap != nil {
		s.current.Store(snap)
	}
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Swap publishes the snapshot as the active one.
func (s *Store) Swap(snap *Snapshot) {
	s.current.Store(snap)
}

// Replace builds a snapshot from the records and publishes it only when
// the build succeeds. On failure the previous snapshot stays in
// service.
func (s *Store) Replace(records []SkillRecord) (*Snapshot, error) {
	snap, err := Build(records)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}
