package storage

import (
	"testing"

	"github.com/kordenlund/warmarshal/internal/game"
)

func TestMatchStoreRoundTrip(t *testing.T) {
	s := NewMatchStore()
	m := game.NewMatch("m-1", "WARCODE1", "host@example.com", [2]string{"Ada", "Brom"}, [2]string{"iron", "ash"}, nil)
	s.Put(m)

	got, ok := s.Get("WARCODE1")
	if !ok || got != m {
		t.Fatalf("expected stored match back, got %v (ok=%v)", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("expected len 1, got %d", s.Len())
	}

	s.Remove("WARCODE1")
	if _, ok := s.Get("WARCODE1"); ok {
		t.Fatal("expected match gone after Remove")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got len %d", s.Len())
	}
}

func TestMatchStoreSnapshotIsDetached(t *testing.T) {
	s := NewMatchStore()
	s.Put(game.NewMatch("m-1", "AAAA1111", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "ash"}, nil))
	s.Put(game.NewMatch("m-2", "BBBB2222", "", [2]string{"Cass", "Dov"}, [2]string{"iron", "ash"}, nil))

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 matches in snapshot, got %d", len(snap))
	}
	s.Remove("AAAA1111")
	if len(snap) != 2 {
		t.Fatal("snapshot must not shrink when the store changes")
	}
}
