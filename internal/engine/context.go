package engine

import (
	"fmt"

	"github.com/kordenlund/warmarshal/internal/game"
)

// resolveContext accumulates the narration lines one command produces.
// Lines reach the match log only when the command commits; a rejection
// drops the context on the floor so refused actions leave no trace.
type resolveContext struct {
	m      *game.Match
	events []string
}

func newContext(m *game.Match) *resolveContext {
	return &resolveContext{m: m, events: make([]string, 0, 8)}
}

func (rc *resolveContext) add(format string, args ...interface{}) {
	rc.events = append(rc.events, fmt.Sprintf(format, args...))
}

// commit flushes the accumulated lines into the match log and returns them
// for the caller to broadcast.
func (rc *resolveContext) commit() []string {
	rc.m.AppendLog(rc.events...)
	rc.m.Touch()
	return rc.events
}

func (rc *resolveContext) owner(c *game.Combatant) string {
	return rc.m.PlayerName(c.Owner)
}
