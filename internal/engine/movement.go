package engine

import (
	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// MovementResolver validates and commits moves during the Movement phase.
// Distance accounting is net displacement from the phase-start snapshot,
// not path length: a combatant that doubles back recovers allowance, and a
// later proposal in the same phase re-derives the flags from the final net
// distance.
type MovementResolver struct {
	k     float64
	trace *zap.Logger
}

// ProposeMove accepts destinations within the move or march allowance and
// commits the new position. March is the stretch band above the normal
// allowance; a marched combatant may neither shoot nor charge this round.
func (r *MovementResolver) ProposeMove(m *game.Match, player game.PlayerID, id game.CombatantID, dest geom.Vec) ([]string, error) {
	if m.Phase != game.PhaseMovement {
		return nil, reject(ErrPhaseMismatch, "moves are made in the movement phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	c, err := ownCombatant(m, player, id)
	if err != nil {
		return nil, err
	}

	d := geom.PlanarDist(c.PhaseStart, dest)
	moveAllow := c.MoveAllowance(r.k)
	marchAllow := c.MarchAllowance(r.k)
	if d > marchAllow {
		return nil, reject(ErrOutOfRange, "%.1f is outside movement/march range (%.1f/%.1f)", d, moveAllow, marchAllow)
	}
	if err := destinationClear(m, c, dest, game.NoCombatant); err != nil {
		return nil, err
	}

	rc := newContext(m)
	c.Position = dest
	c.HasMoved = d > 0
	c.HasMarched = d > moveAllow
	c.RemainingMove = clampNonNegative(moveAllow - d)
	c.RemainingMarch = clampNonNegative(marchAllow - d)

	r.trace.Info("move",
		zap.String("match", m.Code),
		zap.String("combatant", c.Name),
		zap.Float64("net_distance", d),
		zap.Bool("march", c.HasMarched),
	)
	switch {
	case c.HasMarched:
		rc.add("%s's %s marches %.1f (march allowance %.1f)", rc.owner(c), c.Name, d, marchAllow)
	case c.HasMoved:
		rc.add("%s's %s moves %.1f (%.1f movement left)", rc.owner(c), c.Name, d, c.RemainingMove)
	default:
		rc.add("%s's %s returns to its starting position", rc.owner(c), c.Name)
	}
	return rc.commit(), nil
}
