package dice

import "testing"

func TestD6Bounds(t *testing.T) {
	r := NewSeeded(1)
	seen := map[int]bool{}
	for i := 0; i < 10000; i++ {
		v := r.D6()
		if v < 1 || v > 6 {
			t.Fatalf("roll out of range: %d", v)
		}
		seen[v] = true
	}
	for face := 1; face <= 6; face++ {
		if !seen[face] {
			t.Fatalf("face %d never rolled in 10000 tries", face)
		}
	}
}

func TestSeededRollersAgree(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		if av, bv := a.D6(), b.D6(); av != bv {
			t.Fatalf("seeded rollers diverged at roll %d: %d vs %d", i, av, bv)
		}
	}
}
