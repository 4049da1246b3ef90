package engine

import (
	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
)

// CombatResolver runs the shared hit/wound/save/damage pipeline. Shooting
// and melee go through the same code; only the skill used to hit differs.
type CombatResolver struct {
	trace *zap.Logger
}

// woundTarget returns the roll needed for strength s to wound toughness t,
// or 0 when the attack cannot wound at all.
func woundTarget(s, t int) int {
	switch {
	case s*2 <= t:
		return 0
	case s >= 2*t:
		return 2
	case s > t:
		return 3
	case s == t:
		return 4
	default:
		return 5
	}
}

// saveTarget returns the threshold a defender saves against: the better of
// the piercing-modified armour save and the invulnerable save, clamped to
// the die faces. 7 means unsavable. A roll below the threshold fails the
// save; at or above it the wound is turned.
func saveTarget(armour, ap, invuln int) int {
	req := armour - ap
	if invuln < req {
		req = invuln
	}
	if req < 2 {
		req = 2
	}
	if req > 7 {
		req = 7
	}
	return req
}

// ResolveAttack rolls one full attack of weapon by attacker against
// defender and applies the resulting damage. Returns the damage dealt.
// Eligibility, range and contact gates belong to the caller; by the time
// the pipeline runs the attack is legal.
func (r *CombatResolver) ResolveAttack(rc *resolveContext, attacker *game.Combatant, weapon game.Weapon, defender *game.Combatant) int {
	skill := attacker.WeaponSkill
	kind := "melee"
	if !weapon.IsMelee() {
		skill = attacker.BallisticSkill
		kind = "ranged"
	}
	roller := rc.m.Roller

	hitRolls := make([]int, weapon.Shots)
	hits := 0
	for i := range hitRolls {
		hitRolls[i] = roller.D6()
		if hitRolls[i] >= skill {
			hits++
		}
	}
	r.trace.Info("to-hit",
		zap.String("match", rc.m.Code),
		zap.String("attacker", attacker.Name),
		zap.String("weapon", weapon.Name),
		zap.String("kind", kind),
		zap.Int("skill", skill),
		zap.Ints("rolls", hitRolls),
		zap.Int("hits", hits),
	)
	rc.add("%s attacks %s's %s with %s: %d of %d hit (hitting on %d+)",
		attacker.Name, rc.owner(defender), defender.Name, weapon.Name, hits, weapon.Shots, skill)
	if hits == 0 {
		return 0
	}

	needed := woundTarget(weapon.Strength, defender.Toughness)
	if needed == 0 {
		r.trace.Info("to-wound",
			zap.String("match", rc.m.Code),
			zap.Int("strength", weapon.Strength),
			zap.Int("toughness", defender.Toughness),
			zap.Bool("impossible", true),
		)
		rc.add("strength %d cannot wound toughness %d", weapon.Strength, defender.Toughness)
		return 0
	}
	woundRolls := make([]int, hits)
	wounds := 0
	for i := range woundRolls {
		woundRolls[i] = roller.D6()
		if woundRolls[i] >= needed {
			wounds++
		}
	}
	r.trace.Info("to-wound",
		zap.String("match", rc.m.Code),
		zap.Int("strength", weapon.Strength),
		zap.Int("toughness", defender.Toughness),
		zap.Int("needed", needed),
		zap.Ints("rolls", woundRolls),
		zap.Int("wounds", wounds),
	)
	rc.add("%d of %d wound (wounding on %d+)", wounds, hits, needed)
	if wounds == 0 {
		return 0
	}

	required := saveTarget(defender.ArmourSave, weapon.ArmourPiercing, defender.InvulnerableSave)
	saveRolls := make([]int, wounds)
	unsaved := 0
	for i := range saveRolls {
		saveRolls[i] = roller.D6()
		if saveRolls[i] < required {
			unsaved++
		}
	}
	r.trace.Info("saves",
		zap.String("match", rc.m.Code),
		zap.Int("armour", defender.ArmourSave),
		zap.Int("piercing", weapon.ArmourPiercing),
		zap.Int("invulnerable", defender.InvulnerableSave),
		zap.Int("required", required),
		zap.Ints("rolls", saveRolls),
		zap.Int("unsaved", unsaved),
	)
	if unsaved == 0 {
		rc.add("all %d wounds saved (saving on %d+)", wounds, required)
		return 0
	}
	rc.add("%d of %d wounds get through (saving on %d+)", unsaved, wounds, required)

	damage := unsaved * weapon.Damage
	died := defender.TakeDamage(damage)
	r.trace.Info("damage",
		zap.String("match", rc.m.Code),
		zap.String("defender", defender.Name),
		zap.Int("damage", damage),
		zap.Int("wounds_left", defender.Wounds),
		zap.Bool("destroyed", died),
	)
	if died {
		rc.add("%s's %s takes %d damage and is destroyed", rc.owner(defender), defender.Name, damage)
	} else {
		rc.add("%s's %s takes %d damage (%d wounds left)", rc.owner(defender), defender.Name, damage, defender.Wounds)
	}
	return damage
}
