package service

import (
	"errors"

	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchNotInProgress = errors.New("match is not in progress")
	ErrNotAParticipant    = errors.New("player is not part of this match")
)

// Commands routes player commands into the rules engine, one command at a
// time under the match mutex, and persists the result when a command ends
// the match. Repo may be nil when nothing should be persisted.
type Commands struct {
	Rules *engine.Rules
	Repo  ResultRepo
}

// playerFor resolves which seat a display name occupies. Hot-seat players
// are identified by the names fixed at match creation.
func playerFor(m *game.Match, name string) (game.PlayerID, error) {
	switch name {
	case m.PlayerNames[0]:
		return game.Player1, nil
	case m.PlayerNames[1]:
		return game.Player2, nil
	}
	return 0, ErrNotAParticipant
}

func (s *Commands) dispatch(m *game.Match, playerName string, fn func(p game.PlayerID) ([]string, error)) ([]string, error) {
	m.Lock()
	defer m.Unlock()
	if !m.InProgress() {
		return nil, ErrMatchNotInProgress
	}
	p, err := playerFor(m, playerName)
	if err != nil {
		return nil, err
	}
	log, err := fn(p)
	if err == nil && m.Status == game.StatusFinished {
		s.persistFinish(m, "")
	}
	return log, err
}

// ProposeMove routes a destination for one combatant. During the movement
// phase this is a regular move; while a charge waits for its contact move
// the same command completes the charge instead.
func (s *Commands) ProposeMove(m *game.Match, playerName string, id game.CombatantID, dest geom.Vec) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		if m.Phase == game.PhaseCharge && m.Charge.Stage == game.ChargeAwaitingMove {
			return s.Rules.Charge.ConfirmMove(m, p, id, dest)
		}
		return s.Rules.Movement.ProposeMove(m, p, id, dest)
	})
}

// SelectChargeTarget declares a charge against an enemy in reach. Posting
// the same pair again while the charge waits for its contact move walks
// the attacker straight into the target instead.
func (s *Commands) SelectChargeTarget(m *game.Match, playerName string, attackerID, targetID game.CombatantID) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		if m.Phase == game.PhaseCharge && m.Charge.Stage == game.ChargeAwaitingMove {
			return s.Rules.Charge.ConfirmDirect(m, p, attackerID, targetID)
		}
		return s.Rules.Charge.SelectTarget(m, p, attackerID, targetID)
	})
}

// SelectWeapon picks a weapon slot: a ranged weapon during the fire
// phases, a melee weapon for the active fighter during the fight phase.
func (s *Commands) SelectWeapon(m *game.Match, playerName string, id game.CombatantID, weaponIdx int) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		if m.Phase == game.PhaseFight {
			return s.Rules.Fight.SelectWeapon(m, p, id, weaponIdx)
		}
		return s.Rules.Combat.SelectWeapon(m, p, id, weaponIdx)
	})
}

// SelectTarget resolves the selected weapon against a target: a shot
// during the fire phases, a melee attack during the fight phase.
func (s *Commands) SelectTarget(m *game.Match, playerName string, targetID game.CombatantID) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		if m.Phase == game.PhaseFight {
			return s.Rules.Fight.SelectAttackTarget(m, p, targetID)
		}
		return s.Rules.Combat.ShootTarget(m, p, targetID)
	})
}

func (s *Commands) SelectFight(m *game.Match, playerName string, id game.CombatantID) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		return s.Rules.Fight.SelectFight(m, p, id)
	})
}

func (s *Commands) BeginFight(m *game.Match, playerName string) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		return s.Rules.Fight.BeginFight(m, p)
	})
}

func (s *Commands) SelectFighter(m *game.Match, playerName string, id game.CombatantID) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		return s.Rules.Fight.SelectFighter(m, p, id)
	})
}

// PileIn brings the active fighter's engagement move. A nil destination
// declines the move and holds position.
func (s *Commands) PileIn(m *game.Match, playerName string, dest *geom.Vec) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		return s.Rules.Fight.ConfirmPileIn(m, p, dest)
	})
}

func (s *Commands) AdvanceTurn(m *game.Match, playerName string) ([]string, error) {
	return s.dispatch(m, playerName, func(p game.PlayerID) ([]string, error) {
		return s.Rules.Turns.AdvanceTurn(m, p)
	})
}

// Cancel aborts whichever selection the player currently has in flight:
// a waiting charge, a pending shot or an uncommitted fight activation, in
// that order. Returns false when there was nothing to abort.
func (s *Commands) Cancel(m *game.Match, playerName string) ([]string, bool, error) {
	m.Lock()
	defer m.Unlock()
	if !m.InProgress() {
		return nil, false, ErrMatchNotInProgress
	}
	p, err := playerFor(m, playerName)
	if err != nil {
		return nil, false, err
	}
	if log, ok := s.Rules.Charge.Cancel(m, p); ok {
		return log, true, nil
	}
	if log, ok := s.Rules.Combat.CancelShot(m, p); ok {
		return log, true, nil
	}
	if log, ok := s.Rules.Fight.Cancel(m, p); ok {
		return log, true, nil
	}
	return nil, false, nil
}
