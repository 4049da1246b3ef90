package engine

import (
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// scriptRoller feeds a fixed dice script to the match under test. Running
// past the script is a test bug and panics.
type scriptRoller struct {
	rolls []int
	next  int
}

func (r *scriptRoller) D6() int {
	if r.next >= len(r.rolls) {
		panic("dice script exhausted")
	}
	v := r.rolls[r.next]
	r.next++
	return v
}

func newTestRules() *Rules {
	return New(Config{ConversionFactor: 10})
}

func newTestMatch(rolls ...int) *game.Match {
	m := game.NewMatch("m-1", "WARTEST1", "host@example.com",
		[2]string{"Ada", "Brom"}, [2]string{"iron", "ash"},
		&scriptRoller{rolls: rolls})
	m.Status = game.StatusInProgress
	m.Round = 1
	return m
}

// addFighter places a baseline model at x on the centre line: M6 I4,
// hitting on 3s, S4 T4, 3+ save, two wounds, one attack, base radius 1,
// armed with a scatter gun and a war blade.
func addFighter(m *game.Match, owner game.PlayerID, name string, x float64) *game.Combatant {
	c := &game.Combatant{
		Owner:            owner,
		Name:             name,
		MovementRange:    6,
		Initiative:       4,
		BallisticSkill:   3,
		WeaponSkill:      3,
		Strength:         4,
		Toughness:        4,
		ArmourSave:       3,
		InvulnerableSave: 7,
		MaxWounds:        2,
		Wounds:           2,
		Attacks:          1,
		BaseRadius:       1,
		Height:           4,
		Position:         geom.Vec{X: x},
		PhaseStart:       geom.Vec{X: x},
		Weapons: []game.Weapon{
			{Name: "scatter gun", Range: 120, Shots: 2, Strength: 4, ArmourPiercing: 0, Damage: 1},
			{Name: "war blade", Range: 0, Shots: 1, Strength: 4, ArmourPiercing: 0, Damage: 1},
		},
	}
	m.AddCombatant(c)
	return c
}
