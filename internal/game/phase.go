package game

// Phase is one step of the round cycle. The order is fixed: a round runs
// Movement, FirstFire, Charge, Fight, AdvanceFire and then wraps into the
// next round's Movement.
type Phase int

const (
	PhaseMovement Phase = iota
	PhaseFirstFire
	PhaseCharge
	PhaseFight
	PhaseAdvanceFire
)

var phaseNames = map[Phase]string{
	PhaseMovement:    "movement",
	PhaseFirstFire:   "first_fire",
	PhaseCharge:      "charge",
	PhaseFight:       "fight",
	PhaseAdvanceFire: "advance_fire",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// Next returns the following phase and whether the round wrapped.
func (p Phase) Next() (Phase, bool) {
	if p == PhaseAdvanceFire {
		return PhaseMovement, true
	}
	return p + 1, false
}

// MatchStatus tracks the lifecycle of a match session.
type MatchStatus string

const (
	StatusSetup      MatchStatus = "setup"
	StatusInProgress MatchStatus = "in_progress"
	StatusFinished   MatchStatus = "finished"
)

// EndReason records why a finished match ended.
type EndReason string

const (
	EndReasonNone        EndReason = ""
	EndReasonWipeout     EndReason = "wipeout"
	EndReasonResignation EndReason = "resignation"
	EndReasonAbandoned   EndReason = "abandoned"
)
