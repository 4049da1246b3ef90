package engine

import (
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// requireTurn gates a command on the acting player holding the turn.
func requireTurn(m *game.Match, player game.PlayerID) error {
	if player != m.ActivePlayer {
		return reject(ErrPhaseMismatch, "it is %s's turn", m.PlayerName(m.ActivePlayer))
	}
	return nil
}

// ownCombatant resolves id to a live combatant commanded by player.
func ownCombatant(m *game.Match, player game.PlayerID, id game.CombatantID) (*game.Combatant, error) {
	c := m.ByID(id)
	if c == nil {
		return nil, reject(ErrInvalidTarget, "no combatant with id %d", id)
	}
	if !c.Alive() {
		return nil, reject(ErrInvalidTarget, "%s has been destroyed", c.Name)
	}
	if c.Owner != player {
		return nil, reject(ErrInvalidTarget, "%s is not yours to command", c.Name)
	}
	return c, nil
}

// enemyCombatant resolves id to a live combatant on the other side.
func enemyCombatant(m *game.Match, player game.PlayerID, id game.CombatantID) (*game.Combatant, error) {
	c := m.ByID(id)
	if c == nil {
		return nil, reject(ErrInvalidTarget, "no combatant with id %d", id)
	}
	if !c.Alive() {
		return nil, reject(ErrInvalidTarget, "%s has already been destroyed", c.Name)
	}
	if c.Owner == player {
		return nil, reject(ErrInvalidTarget, "%s is on your own side", c.Name)
	}
	return c, nil
}

// destinationClear rejects destinations whose footprint would overlap any
// other live combatant. except is skipped, so a charge move may overlap
// its target.
func destinationClear(m *game.Match, c *game.Combatant, dest geom.Vec, except game.CombatantID) error {
	vol := c.VolumeAt(dest)
	for _, o := range m.Combatants {
		if o.ID == c.ID || o.ID == except || !o.Alive() {
			continue
		}
		if geom.Overlaps(vol, o.Volume()) {
			return reject(ErrInvalidTarget, "destination overlaps %s", o.Name)
		}
	}
	return nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
