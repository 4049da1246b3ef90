package engine

import (
	"testing"

	"github.com/kordenlund/warmarshal/internal/game"
)

func TestWoundTargetThresholds(t *testing.T) {
	cases := []struct {
		s, tough, want int
	}{
		{8, 4, 2},
		{9, 4, 2},
		{10, 5, 2},
		{7, 4, 3},
		{5, 4, 3},
		{4, 4, 4},
		{1, 1, 4},
		{3, 4, 5},
		{5, 8, 5},
		{2, 4, 0},
		{4, 8, 0},
		{2, 8, 0},
	}
	for _, c := range cases {
		if got := woundTarget(c.s, c.tough); got != c.want {
			t.Fatalf("woundTarget(S=%d, T=%d): expected %d, got %d", c.s, c.tough, c.want, got)
		}
	}
}

func TestSaveTargetThresholds(t *testing.T) {
	cases := []struct {
		armour, ap, invuln, want int
	}{
		{3, 0, 7, 3},
		{3, -1, 7, 4},
		{3, -1, 5, 4},
		{5, -1, 4, 4},
		{2, 0, 7, 2},
		{1, 0, 7, 2},
		{6, -2, 7, 7},
		{7, -3, 7, 7},
	}
	for _, c := range cases {
		if got := saveTarget(c.armour, c.ap, c.invuln); got != c.want {
			t.Fatalf("saveTarget(armour=%d, ap=%d, invuln=%d): expected %d, got %d",
				c.armour, c.ap, c.invuln, c.want, got)
		}
	}
}

func TestResolveAttackPipeline(t *testing.T) {
	r := newTestRules()
	// Hit rolls 3,2 against skill 3 give one hit; wound roll 5 against the
	// S4-vs-T4 threshold of 4 wounds; save roll 2 against a required 3
	// fails the save.
	m := newTestMatch(3, 2, 5, 2)
	a := addFighter(m, game.Player1, "Gunner", 0)
	d := addFighter(m, game.Player2, "Target", 50)

	rc := newContext(m)
	dmg := r.Combat.ResolveAttack(rc, a, a.Weapons[0], d)
	if dmg != 1 {
		t.Fatalf("expected 1 damage through, got %d", dmg)
	}
	if d.Wounds != 1 {
		t.Fatalf("expected the defender at 1 wound, got %d", d.Wounds)
	}
	if !d.Alive() {
		t.Fatalf("expected the defender to survive")
	}
}

func TestResolveAttackImpossibleWoundRollsNoDice(t *testing.T) {
	r := newTestRules()
	// Only the two hit dice are scripted: with 2S <= T the pipeline must
	// stop before rolling wounds, or the script panics.
	m := newTestMatch(6, 6)
	a := addFighter(m, game.Player1, "Gunner", 0)
	d := addFighter(m, game.Player2, "Fortress", 50)
	d.Toughness = 8

	rc := newContext(m)
	if dmg := r.Combat.ResolveAttack(rc, a, a.Weapons[0], d); dmg != 0 {
		t.Fatalf("expected no damage against impossible toughness, got %d", dmg)
	}
	if d.Wounds != 2 {
		t.Fatalf("expected the defender untouched, got %d wounds", d.Wounds)
	}
}

func TestResolveAttackKillsDefender(t *testing.T) {
	r := newTestRules()
	m := newTestMatch(6, 4, 1)
	a := addFighter(m, game.Player1, "Duellist", 0)
	d := addFighter(m, game.Player2, "Victim", 1.5)
	d.Wounds = 1

	rc := newContext(m)
	if dmg := r.Combat.ResolveAttack(rc, a, a.Weapons[1], d); dmg != 1 {
		t.Fatalf("expected 1 damage, got %d", dmg)
	}
	if d.Alive() {
		t.Fatalf("expected the defender destroyed at 0 wounds")
	}
}

func TestResolveAttackAllSaved(t *testing.T) {
	r := newTestRules()
	// Two hits, two wounds, both saves at or above the required 3.
	m := newTestMatch(5, 4, 6, 4, 3, 6)
	a := addFighter(m, game.Player1, "Gunner", 0)
	d := addFighter(m, game.Player2, "Bulwark", 50)

	rc := newContext(m)
	if dmg := r.Combat.ResolveAttack(rc, a, a.Weapons[0], d); dmg != 0 {
		t.Fatalf("expected every wound saved, got %d damage", dmg)
	}
	if d.Wounds != 2 {
		t.Fatalf("expected the defender untouched, got %d wounds", d.Wounds)
	}
}
