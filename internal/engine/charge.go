package engine

import (
	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// chargeBonusRange is the flat addition to movement range when computing
// maximum charge reach: the best-case charge die.
const chargeBonusRange = 6

// ChargeResolver drives the charge protocol: declare a target, roll the
// distance, then either surge short or park awaiting the contact move.
// The parked state lives on the match (game.ChargeState); at most one
// charge is in flight per match.
type ChargeResolver struct {
	k     float64
	trace *zap.Logger
}

// SelectTarget declares a charge. The gate order is fixed: eligibility
// first, ownership next, then the maximum-range check; only a declaration
// that passes all three rolls the die. A short roll commits the forced
// surge move immediately; a sufficient one suspends in AwaitingMove.
func (r *ChargeResolver) SelectTarget(m *game.Match, player game.PlayerID, attackerID, targetID game.CombatantID) ([]string, error) {
	if m.Phase != game.PhaseCharge {
		return nil, reject(ErrPhaseMismatch, "charges are declared in the charge phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	if m.Charge.Stage == game.ChargeAwaitingMove {
		return nil, reject(ErrPhaseMismatch, "a charge is awaiting its move; complete or cancel it first")
	}
	att, err := ownCombatant(m, player, attackerID)
	if err != nil {
		return nil, err
	}
	if att.HasMarched {
		return nil, reject(ErrIneligibleCombatant, "%s marched this round and cannot charge", att.Name)
	}
	if att.HasCharged {
		return nil, reject(ErrIneligibleCombatant, "%s already charged this round", att.Name)
	}
	tgt, err := enemyCombatant(m, player, targetID)
	if err != nil {
		return nil, err
	}

	gap := geom.Gap(att.Volume(), tgt.Volume())
	maxRange := (float64(att.MovementRange) + chargeBonusRange) * r.k
	if gap > maxRange {
		return nil, reject(ErrOutOfRange, "%s stands %.1f away, beyond maximum charge range %.1f", tgt.Name, gap, maxRange)
	}

	roll := m.Roller.D6()
	dist := (float64(att.MovementRange) + float64(roll)) * r.k
	r.trace.Info("charge-roll",
		zap.String("match", m.Code),
		zap.String("attacker", att.Name),
		zap.String("target", tgt.Name),
		zap.Int("roll", roll),
		zap.Float64("distance", dist),
		zap.Float64("gap", gap),
	)

	rc := newContext(m)
	if dist < gap {
		// Failed charge: a forced surge of half the rolled distance,
		// straight at the target. It can never reach contact.
		surge := dist / 2
		if surge > gap {
			surge = gap
		}
		dir := geom.PlanarDir(att.Position, tgt.Position)
		att.Position = att.Position.Add(dir.Scale(surge))
		att.HasCharged = true
		m.Charge.Reset()
		rc.add("%s's %s charges %s: rolled %d, reach %.1f falls short of %.1f and surges %.1f forward",
			rc.owner(att), att.Name, tgt.Name, roll, dist, gap, surge)
		return rc.commit(), nil
	}

	m.Charge.Stage = game.ChargeAwaitingMove
	m.Charge.Attacker = attackerID
	m.Charge.Target = targetID
	m.Charge.Roll = roll
	m.Charge.Budget = dist
	rc.add("%s's %s charges %s: rolled %d, reach %.1f; move into contact",
		rc.owner(att), att.Name, tgt.Name, roll, dist)
	return rc.commit(), nil
}

// ConfirmMove brings the parked charge to a ground point. The destination
// must stay inside the rolled budget (net from the phase-start snapshot)
// and must end overlapping the declared target; anything else is rejected
// and the charge keeps waiting, so the player may retry.
func (r *ChargeResolver) ConfirmMove(m *game.Match, player game.PlayerID, id game.CombatantID, dest geom.Vec) ([]string, error) {
	att, tgt, err := r.pending(m, player, id)
	if err != nil {
		return nil, err
	}
	net := geom.PlanarDist(att.PhaseStart, dest)
	if net > m.Charge.Budget {
		return nil, reject(ErrOutOfRange, "%.1f exceeds the rolled charge reach %.1f", net, m.Charge.Budget)
	}
	if !geom.Overlaps(att.VolumeAt(dest), tgt.Volume()) {
		return nil, reject(ErrInvalidTarget, "the charge must end in contact with %s", tgt.Name)
	}
	if err := destinationClear(m, att, dest, tgt.ID); err != nil {
		return nil, err
	}
	return r.land(m, att, tgt, dest), nil
}

// ConfirmDirect is the click-on-the-target form of the contact move: the
// attacker walks the straight line and stops exactly at closing distance.
func (r *ChargeResolver) ConfirmDirect(m *game.Match, player game.PlayerID, id, targetID game.CombatantID) ([]string, error) {
	att, tgt, err := r.pending(m, player, id)
	if err != nil {
		return nil, err
	}
	if targetID != tgt.ID {
		return nil, reject(ErrInvalidTarget, "the charge was declared against %s", tgt.Name)
	}
	gap := geom.Gap(att.Volume(), tgt.Volume())
	if gap > m.Charge.Budget {
		return nil, reject(ErrOutOfRange, "closing distance %.1f exceeds the rolled charge reach %.1f", gap, m.Charge.Budget)
	}
	dest := att.Position.Add(geom.PlanarDir(att.Position, tgt.Position).Scale(gap))
	if err := destinationClear(m, att, dest, tgt.ID); err != nil {
		return nil, err
	}
	return r.land(m, att, tgt, dest), nil
}

// Cancel abandons a parked charge with no side effects: no flag, no move.
// Reports whether there was anything to abandon.
func (r *ChargeResolver) Cancel(m *game.Match, player game.PlayerID) ([]string, bool) {
	if m.Phase != game.PhaseCharge || m.Charge.Stage != game.ChargeAwaitingMove || player != m.ActivePlayer {
		return nil, false
	}
	rc := newContext(m)
	if att := m.ByID(m.Charge.Attacker); att != nil {
		rc.add("%s's %s abandons the charge", rc.owner(att), att.Name)
	}
	m.Charge.Reset()
	return rc.commit(), true
}

// pending validates the shared gates of both contact-move forms.
func (r *ChargeResolver) pending(m *game.Match, player game.PlayerID, id game.CombatantID) (att, tgt *game.Combatant, err error) {
	if m.Phase != game.PhaseCharge {
		return nil, nil, reject(ErrPhaseMismatch, "no charge is resolving in the %s phase", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, nil, err
	}
	if m.Charge.Stage != game.ChargeAwaitingMove {
		return nil, nil, reject(ErrNoSelection, "no charge is awaiting a move")
	}
	if id != m.Charge.Attacker {
		return nil, nil, reject(ErrNoSelection, "that combatant has no charge in flight")
	}
	att, err = ownCombatant(m, player, id)
	if err != nil {
		return nil, nil, err
	}
	tgt = m.ByID(m.Charge.Target)
	if tgt == nil || !tgt.Alive() {
		return nil, nil, reject(ErrInvalidTarget, "the charge target no longer stands")
	}
	return att, tgt, nil
}

// land commits a confirmed contact move.
func (r *ChargeResolver) land(m *game.Match, att, tgt *game.Combatant, dest geom.Vec) []string {
	rc := newContext(m)
	att.Position = dest
	att.HasCharged = true
	m.Charge.Reset()
	r.trace.Info("charge-contact",
		zap.String("match", m.Code),
		zap.String("attacker", att.Name),
		zap.String("target", tgt.Name),
	)
	rc.add("%s's %s completes the charge into contact with %s", rc.owner(att), att.Name, tgt.Name)
	return rc.commit()
}
