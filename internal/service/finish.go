package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/logging"
)

// ResultRepo is the minimal repository interface required to persist a
// finished match.
type ResultRepo interface {
	SaveBattleRecord(rec *game.BattleRecord) error
	UpdateStatsOnMatchEnd(rec *game.BattleRecord, resignedName string) error
	CountHostedBattle(email string) error
}

var ErrMatchFinished = errors.New("match is already finished")

// EndMatch resigns playerName out of the match: the opponent wins and the
// result is persisted immediately.
func (s *Commands) EndMatch(m *game.Match, playerName string) error {
	m.Lock()
	defer m.Unlock()
	if m.Status == game.StatusFinished {
		return ErrMatchFinished
	}
	p, err := playerFor(m, playerName)
	if err != nil {
		return err
	}
	winner := p.Opponent()
	m.Status = game.StatusFinished
	m.Winner = m.PlayerName(winner)
	m.EndReason = game.EndReasonResignation
	m.FinishedAt = time.Now()
	m.Charge.Reset()
	m.Shot.Reset()
	m.Fight.Reset()
	m.Message = "Match ended by resignation"
	m.AppendLog(fmt.Sprintf("%s resigns; %s holds the field", playerName, m.Winner))
	m.Touch()
	s.persistFinish(m, playerName)
	return nil
}

// persistFinish writes the battle record, stat deltas and the host's
// hosted-battle count exactly once per match. Persistence failures are
// logged and not retried; the match outcome itself lives in memory.
func (s *Commands) persistFinish(m *game.Match, resignedName string) {
	if s.Repo == nil || m.StatsCounted {
		return
	}
	m.StatsCounted = true
	rec := &game.BattleRecord{
		MatchCode:  m.Code,
		HostEmail:  m.HostEmail,
		PlayerOne:  m.PlayerNames[0],
		PlayerTwo:  m.PlayerNames[1],
		Winner:     m.Winner,
		Rounds:     m.Round,
		EndReason:  string(m.EndReason),
		FinishedAt: m.FinishedAt,
	}
	if err := s.Repo.SaveBattleRecord(rec); err != nil {
		logging.Error("failed to record battle result", err, logging.Fields{constants.LogFieldMatchCode: m.Code})
	}
	if err := s.Repo.UpdateStatsOnMatchEnd(rec, resignedName); err != nil {
		logging.Error("failed to update player stats", err, logging.Fields{constants.LogFieldMatchCode: m.Code})
	}
	if m.HostEmail != "" {
		if err := s.Repo.CountHostedBattle(m.HostEmail); err != nil {
			logging.Error("failed to count hosted battle", err, logging.Fields{constants.LogFieldMatchCode: m.Code})
		}
	}
}
