package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spigell/skillmatcher/internal/matching"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(candidateID, roleID string, score float64, failures ...string) *matching.MatchResult {
	return &matching.MatchResult{
		CandidateID:       candidateID,
		RoleID:            roleID,
		Score:             score,
		MandatoryFailures: failures,
	}
}

func TestStoreRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, result("alice", "backend-eng", 0.75))
	if err != nil {
		t.Fatalf("unexpected record error: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a row id")
	}
	if _, err := store.Record(ctx, result("bob", "backend-eng", 0.4, "go")); err != nil {
		t.Fatalf("unexpected record error: %v", err)
	}

	records, err := store.List(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Most recent first.
	if records[0].CandidateID != "bob" || records[1].CandidateID != "alice" {
		t.Fatalf("unexpected order: %+v", records)
	}
	if records[0].Viable {
		t.Fatalf("a mandatory failure must be stored as not viable")
	}
	if !records[1].Viable || records[1].Score != 0.75 {
		t.Fatalf("unexpected record: %+v", records[1])
	}
	if records[0].CreatedAt == "" {
		t.Fatalf("expected a creation timestamp")
	}
}

func TestStoreListFilters(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, r := range []*matching.MatchResult{
		result("alice", "backend-eng", 0.9),
		result("alice", "frontend-eng", 0.5),
		result("bob", "backend-eng", 0.7),
	} {
		if _, err := store.Record(ctx, r); err != nil {
			t.Fatalf("unexpected record error: %v", err)
		}
	}

	byCandidate, err := store.List(ctx, "alice", "", 0)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(byCandidate) != 2 {
		t.Fatalf("expected 2 records for alice, got %d", len(byCandidate))
	}

	byBoth, err := store.List(ctx, "alice", "backend-eng", 0)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(byBoth) != 1 || byBoth[0].Score != 0.9 {
		t.Fatalf("unexpected filtered records: %+v", byBoth)
	}
}

func TestStoreListLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, result("alice", "backend-eng", float64(i)/10)); err != nil {
			t.Fatalf("unexpected record error: %v", err)
		}
	}

	records, err := store.List(ctx, "", "", 2)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected the limit to apply, got %d records", len(records))
	}
	if records[0].Score != 0.4 {
		t.Fatalf("expected the newest record first, got %+v", records[0])
	}
}
