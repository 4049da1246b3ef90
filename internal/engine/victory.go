package engine

import (
	"time"

	"github.com/kordenlund/warmarshal/internal/game"
)

// checkVictory ends the match when one side has no live combatants left.
// Called after every resolution that can destroy a combatant. Returns
// true once the match is finished.
func checkVictory(rc *resolveContext) bool {
	m := rc.m
	if m.Status == game.StatusFinished {
		return true
	}
	for _, p := range []game.PlayerID{game.Player1, game.Player2} {
		if m.LiveCount(p) == 0 {
			finishMatch(rc, p.Opponent(), game.EndReasonWipeout)
			return true
		}
	}
	return false
}

// finishMatch closes out the match state. Persistence of records and
// stats is the service layer's job; it watches for the status flip.
func finishMatch(rc *resolveContext, winner game.PlayerID, reason game.EndReason) {
	m := rc.m
	m.Status = game.StatusFinished
	m.Winner = m.PlayerName(winner)
	m.EndReason = reason
	m.FinishedAt = time.Now()
	m.Charge.Reset()
	m.Shot.Reset()
	m.Fight.Reset()
	rc.add("%s wins the battle (%s) after %d rounds", m.Winner, reason, m.Round)
}
