package engine

import (
	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// Shooting is a two-step suspend: ready a ranged weapon, then pick the
// target. The pending selection lives on the match (game.ShotState) and
// survives a rejected target so the player can aim elsewhere. A ranged
// weapon fires at most once per round, shared across both fire phases;
// the spent set is cleared when the round wraps.

func firePhase(p game.Phase) bool {
	return p == game.PhaseFirstFire || p == game.PhaseAdvanceFire
}

// SelectWeapon readies one of the shooter's ranged weapons. Re-selecting
// replaces any earlier pending choice.
func (r *CombatResolver) SelectWeapon(m *game.Match, player game.PlayerID, id game.CombatantID, weaponIdx int) ([]string, error) {
	if !firePhase(m.Phase) {
		return nil, reject(ErrPhaseMismatch, "weapons fire in a fire phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	c, err := ownCombatant(m, player, id)
	if err != nil {
		return nil, err
	}
	if c.HasMarched {
		return nil, reject(ErrIneligibleCombatant, "%s marched this round and cannot shoot", c.Name)
	}
	if weaponIdx < 0 || weaponIdx >= len(c.Weapons) {
		return nil, reject(ErrInvalidTarget, "%s has no weapon at slot %d", c.Name, weaponIdx)
	}
	wp := c.Weapons[weaponIdx]
	if wp.IsMelee() {
		return nil, reject(ErrInvalidTarget, "%s is a melee weapon and cannot fire", wp.Name)
	}
	if m.UsedRanged[game.WeaponKey{Combatant: id, Weapon: weaponIdx}] {
		return nil, reject(ErrIneligibleCombatant, "%s's %s already fired this round", c.Name, wp.Name)
	}

	rc := newContext(m)
	m.Shot.Shooter = id
	m.Shot.WeaponIdx = weaponIdx
	rc.add("%s's %s readies the %s", rc.owner(c), c.Name, wp.Name)
	return rc.commit(), nil
}

// ShootTarget fires the readied weapon at an enemy. The weapon is marked
// spent only when the shot actually resolves; an out-of-range target
// leaves the selection pending for another try.
func (r *CombatResolver) ShootTarget(m *game.Match, player game.PlayerID, targetID game.CombatantID) ([]string, error) {
	if !firePhase(m.Phase) {
		return nil, reject(ErrPhaseMismatch, "weapons fire in a fire phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	if !m.Shot.Pending() {
		return nil, reject(ErrNoSelection, "no weapon readied; select a ranged weapon first")
	}
	shooter, err := ownCombatant(m, player, m.Shot.Shooter)
	if err != nil {
		return nil, err
	}
	tgt, err := enemyCombatant(m, player, targetID)
	if err != nil {
		return nil, err
	}
	wp := shooter.Weapons[m.Shot.WeaponIdx]
	gap := geom.Gap(shooter.Volume(), tgt.Volume())
	if gap > wp.Range {
		return nil, reject(ErrOutOfRange, "%s stands %.1f away, beyond the %s's range %.1f", tgt.Name, gap, wp.Name, wp.Range)
	}

	r.trace.Info("shot",
		zap.String("match", m.Code),
		zap.String("shooter", shooter.Name),
		zap.String("weapon", wp.Name),
		zap.String("target", tgt.Name),
		zap.Float64("gap", gap),
	)

	rc := newContext(m)
	m.UsedRanged[game.WeaponKey{Combatant: shooter.ID, Weapon: m.Shot.WeaponIdx}] = true
	m.Shot.Reset()
	r.ResolveAttack(rc, shooter, wp, tgt)
	checkVictory(rc)
	return rc.commit(), nil
}

// CancelShot drops a pending weapon selection. Reports whether there was
// one to drop.
func (r *CombatResolver) CancelShot(m *game.Match, player game.PlayerID) ([]string, bool) {
	if !firePhase(m.Phase) || !m.Shot.Pending() || player != m.ActivePlayer {
		return nil, false
	}
	rc := newContext(m)
	if c := m.ByID(m.Shot.Shooter); c != nil {
		rc.add("%s's %s lowers its weapon", rc.owner(c), c.Name)
	}
	m.Shot.Reset()
	return rc.commit(), true
}
