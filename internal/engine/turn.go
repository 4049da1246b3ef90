package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
)

// TurnMachine owns the phase cycle and the per-round bookkeeping. Phases
// advance only through it; the fight orchestrator calls back into
// advancePhase when the last engagement resolves.
type TurnMachine struct {
	k     float64
	fight *FightOrchestrator
	trace *zap.Logger
}

// Begin opens the battle: round one, movement phase, player one to act.
func (t *TurnMachine) Begin(m *game.Match) []string {
	rc := newContext(m)
	m.Status = game.StatusInProgress
	m.Round = 1
	m.Phase = game.PhaseMovement
	m.ActivePlayer = game.Player1
	m.TurnsTaken = 0
	m.StartedAt = time.Now()
	t.resetForRound(m)
	rc.add("the battle begins: round 1, %s phase, %s to act", m.Phase, m.PlayerName(game.Player1))
	return rc.commit()
}

// AdvanceTurn ends the active player's turn. The second turn of a phase
// moves the match to the next phase. The fight phase refuses it; that
// phase ends itself. A charge awaiting its move blocks the turn end, a
// merely readied weapon is quietly lowered.
func (t *TurnMachine) AdvanceTurn(m *game.Match, player game.PlayerID) ([]string, error) {
	if m.Status != game.StatusInProgress {
		return nil, reject(ErrPhaseMismatch, "the battle is over")
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	if m.Phase == game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "the fight phase advances itself once every engagement is resolved")
	}
	if m.Charge.Stage == game.ChargeAwaitingMove {
		return nil, reject(ErrPhaseMismatch, "a charge is awaiting its move; complete or cancel it first")
	}

	rc := newContext(m)
	if m.Shot.Pending() {
		if c := m.ByID(m.Shot.Shooter); c != nil {
			rc.add("%s lowers its weapon", c.Name)
		}
		m.Shot.Reset()
	}
	m.TurnsTaken++
	if m.TurnsTaken >= 2 {
		t.advancePhase(rc)
	} else {
		m.ActivePlayer = m.ActivePlayer.Opponent()
		rc.add("%s takes the turn", m.PlayerName(m.ActivePlayer))
	}
	return rc.commit(), nil
}

// advancePhase moves to the next phase, wrapping into a fresh round after
// the last one. Entering the charge phase re-snapshots start positions so
// charge budgets measure from the charge phase, not from movement.
// Entering the fight phase discovers engagements and skips the phase
// outright when there are none.
func (t *TurnMachine) advancePhase(rc *resolveContext) {
	m := rc.m
	next, wrapped := m.Phase.Next()
	if wrapped {
		m.Round++
		t.resetForRound(m)
		rc.add("round %d begins", m.Round)
	}
	m.Phase = next
	m.ActivePlayer = game.Player1
	m.TurnsTaken = 0
	t.trace.Info("phase",
		zap.String("match", m.Code),
		zap.Int("round", m.Round),
		zap.String("phase", next.String()),
	)

	switch next {
	case game.PhaseCharge:
		for _, c := range m.Combatants {
			if c.Alive() {
				c.PhaseStart = c.Position
			}
		}
	case game.PhaseFight:
		rc.add("%s phase: %s to act", m.Phase, m.PlayerName(m.ActivePlayer))
		if t.fight.discover(rc) == 0 {
			rc.add("no one is locked in melee; the fight passes")
			t.advancePhase(rc)
		}
		return
	}
	rc.add("%s phase: %s to act", m.Phase, m.PlayerName(m.ActivePlayer))
}

// resetForRound clears every live combatant's round flags, restores full
// allowances, snapshots start positions and forgets spent ranged weapons.
func (t *TurnMachine) resetForRound(m *game.Match) {
	for _, c := range m.Combatants {
		if !c.Alive() {
			continue
		}
		c.HasMoved = false
		c.HasMarched = false
		c.HasCharged = false
		c.HasFought = false
		c.RemainingMove = c.MoveAllowance(t.k)
		c.RemainingMarch = c.MarchAllowance(t.k)
		c.RemainingAttacks = 0
		c.PhaseStart = c.Position
	}
	m.UsedRanged = make(map[game.WeaponKey]bool)
}
