package service

import (
	"time"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/logging"
	"github.com/kordenlund/warmarshal/internal/storage"
)

// HandleIdleMatch finishes and unregisters a match that has seen no
// command for longer than ttl. An in-progress match is recorded as
// abandoned with no winner so both players still get a battle on their
// tally; setup-stage matches are simply dropped. Returns whether the
// match was removed.
func (s *Commands) HandleIdleMatch(store *storage.MatchStore, m *game.Match, ttl time.Duration, now time.Time) bool {
	m.Lock()
	defer m.Unlock()
	if now.Sub(m.LastActionAt) < ttl {
		return false
	}
	if m.Status == game.StatusInProgress {
		m.Status = game.StatusFinished
		m.Winner = ""
		m.EndReason = game.EndReasonAbandoned
		m.FinishedAt = now
		m.Charge.Reset()
		m.Shot.Reset()
		m.Fight.Reset()
		m.Message = "Match ended due to inactivity"
		m.AppendLog("the battle is abandoned; both armies quit the field")
		s.persistFinish(m, "")
	}
	store.Remove(m.Code)
	logging.Info("idle match removed", logging.Fields{constants.LogFieldMatchCode: m.Code, constants.LogFieldStatus: string(m.Status)})
	return true
}

// ReapIdleMatches sweeps the store once. The server runs this on a
// ticker.
func (s *Commands) ReapIdleMatches(store *storage.MatchStore, ttl time.Duration) int {
	now := time.Now()
	removed := 0
	for _, m := range store.Snapshot() {
		if s.HandleIdleMatch(store, m, ttl, now) {
			removed++
		}
	}
	return removed
}
