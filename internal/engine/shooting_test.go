package engine

import (
	"errors"
	"testing"

	"github.com/kordenlund/warmarshal/internal/game"
)

func TestShootingResolvesAndSpendsWeapon(t *testing.T) {
	r := newTestRules()
	// Hit rolls 3,3 give two hits, wound rolls 5,3 give one wound, save
	// roll 1 fails against the required 3.
	m := newTestMatch(3, 3, 5, 3, 1)
	m.Phase = game.PhaseFirstFire
	s := addFighter(m, game.Player1, "Gunner", 0)
	tgt := addFighter(m, game.Player2, "Raider", 50)

	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); err != nil {
		t.Fatalf("expected the weapon selection to succeed, got %v", err)
	}
	if !m.Shot.Pending() {
		t.Fatalf("expected a pending shot after the selection")
	}
	if _, err := r.Combat.ShootTarget(m, game.Player1, tgt.ID); err != nil {
		t.Fatalf("expected the shot to resolve, got %v", err)
	}
	if tgt.Wounds != 1 {
		t.Fatalf("expected the target at 1 wound, got %d", tgt.Wounds)
	}
	if m.Shot.Pending() {
		t.Fatalf("expected the shot state cleared after resolution")
	}
	if !m.UsedRanged[game.WeaponKey{Combatant: s.ID, Weapon: 0}] {
		t.Fatalf("expected the scatter gun marked as fired this round")
	}

	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); !errors.Is(err, ErrIneligibleCombatant) {
		t.Fatalf("expected a spent weapon to be rejected, got %v", err)
	}
}

func TestShootingSpentWeaponStaysSpentInAdvanceFire(t *testing.T) {
	r := newTestRules()
	m := newTestMatch(1, 1)
	m.Phase = game.PhaseFirstFire
	s := addFighter(m, game.Player1, "Gunner", 0)
	tgt := addFighter(m, game.Player2, "Raider", 50)

	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); err != nil {
		t.Fatalf("expected the weapon selection to succeed, got %v", err)
	}
	if _, err := r.Combat.ShootTarget(m, game.Player1, tgt.ID); err != nil {
		t.Fatalf("expected the shot to resolve, got %v", err)
	}

	// Both fire phases share the round's spent set.
	m.Phase = game.PhaseAdvanceFire
	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); !errors.Is(err, ErrIneligibleCombatant) {
		t.Fatalf("expected the weapon to stay spent in advance fire, got %v", err)
	}
}

func TestShootingGates(t *testing.T) {
	r := newTestRules()
	m := newTestMatch()
	s := addFighter(m, game.Player1, "Gunner", 0)
	ally := addFighter(m, game.Player1, "Loader", 30)
	tgt := addFighter(m, game.Player2, "Raider", 200)

	m.Phase = game.PhaseMovement
	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); !errors.Is(err, ErrPhaseMismatch) {
		t.Fatalf("expected a phase rejection outside the fire phases, got %v", err)
	}
	m.Phase = game.PhaseFirstFire

	if _, err := r.Combat.ShootTarget(m, game.Player1, tgt.ID); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected a shot without a readied weapon to be rejected, got %v", err)
	}

	s.HasMarched = true
	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); !errors.Is(err, ErrIneligibleCombatant) {
		t.Fatalf("expected a marched shooter to be rejected, got %v", err)
	}
	s.HasMarched = false

	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 1); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected a melee weapon to be rejected for firing, got %v", err)
	}
	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 5); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected a bad weapon slot to be rejected, got %v", err)
	}

	if _, err := r.Combat.SelectWeapon(m, game.Player1, s.ID, 0); err != nil {
		t.Fatalf("expected the scatter gun selection to succeed, got %v", err)
	}
	if _, err := r.Combat.ShootTarget(m, game.Player1, ally.ID); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected a friendly target to be rejected, got %v", err)
	}
	if _, err := r.Combat.ShootTarget(m, game.Player1, tgt.ID); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected a target past the weapon's range to be rejected, got %v", err)
	}
	if !m.Shot.Pending() {
		t.Fatalf("expected the selection to survive rejected targets")
	}

	if _, ok := r.Combat.CancelShot(m, game.Player1); !ok {
		t.Fatalf("expected the cancel to drop the selection")
	}
	if m.Shot.Pending() {
		t.Fatalf("expected no pending shot after the cancel")
	}
	if _, ok := r.Combat.CancelShot(m, game.Player1); ok {
		t.Fatalf("expected a second cancel to report nothing to drop")
	}
}
