package engine

import (
	"errors"
	"fmt"
)

// Rejection taxonomy. Every refused command wraps exactly one of these
// sentinels; a rejection never mutates match state and the same command may
// be retried. Handlers map the sentinels to HTTP statuses with errors.Is.
var (
	// ErrPhaseMismatch rejects an action attempted outside its legal phase
	// or outside the acting player's turn.
	ErrPhaseMismatch = errors.New("action not legal right now")
	// ErrIneligibleCombatant rejects an actor whose per-round flags forbid
	// the action (already marched, already charged, already fought).
	ErrIneligibleCombatant = errors.New("combatant not eligible")
	// ErrOutOfRange rejects a distance beyond the allowance for the action.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidTarget rejects wrong ownership, a missing combatant, or a
	// destination that breaks a contact requirement.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrNoSelection rejects an action whose required prior selection is
	// absent.
	ErrNoSelection = errors.New("nothing selected")
)

// reject wraps a taxonomy sentinel with the concrete refusal reason.
func reject(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
