package taxonomy

import (
	"errors"
	"testing"
)

func TestStoreCurrentWithoutSnapshot(t *testing.T) {
	store := NewStore(nil)

	if _, err := store.Current(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStoreSwap(t *testing.T) {
	first := buildSnapshot(t)
	store := NewStore(first)

	current, err := store.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current != first {
		t.Fatalf("expected the seeded snapshot")
	}

	second, err := Build([]SkillRecord{{ID: "solo", Name: "Solo"}})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	store.Swap(second)

	current, err = store.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current != second {
		t.Fatalf("expected the swapped snapshot")
	}
}

func TestStoreReplaceKeepsPreviousOnFailure(t *testing.T) {
	first := buildSnapshot(t)
	store := NewStore(first)

	if _, err := store.Replace([]SkillRecord{{ID: "a", Parents: []string{"a"}}}); err == nil {
		t.Fatalf("expected replace to fail on a cyclic taxonomy")
	}

	current, err := store.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current != first {
		t.Fatalf("failed replace must leave the previous snapshot in service")
	}

	snap, err := store.Replace(testRecords())
	if err != nil {
		t.Fatalf("unexpected replace error: %v", err)
	}
	current, _ = store.Current()
	if current != snap {
		t.Fatalf("successful replace must publish the new snapshot")
	}
}
