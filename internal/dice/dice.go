// Package dice is the single source of randomness for rules resolution.
// Every resolver receives a Roller instead of reaching for a global so
// tests (and replays) can script exact outcomes.
package dice

import (
	"math/rand"
	"time"
)

// Roller produces uniform d6 results, independent per call.
// Implementations are not required to be safe for concurrent use; a match
// serializes all of its commands.
type Roller interface {
	D6() int
}

type randRoller struct {
	r *rand.Rand
}

// New returns a Roller seeded from the wall clock.
func New() Roller {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Roller. Two rollers built from the same
// seed produce identical sequences, which is what match replays rely on.
func NewSeeded(seed int64) Roller {
	return &randRoller{r: rand.New(rand.NewSource(seed))}
}

func (rr *randRoller) D6() int {
	return rr.r.Intn(6) + 1
}
