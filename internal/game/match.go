package game

import (
	"sync"
	"time"

	"github.com/kordenlund/warmarshal/internal/dice"
)

// matchLogCap bounds the narration log; older lines fall off the front.
const matchLogCap = 200

// ChargeStage names the charge resolver's suspend points.
type ChargeStage int

const (
	ChargeIdle ChargeStage = iota
	// ChargeAwaitingMove parks a successful charge until the player brings
	// the contact move (or cancels).
	ChargeAwaitingMove
)

func (s ChargeStage) String() string {
	if s == ChargeAwaitingMove {
		return "awaiting_move"
	}
	return "idle"
}

// ChargeState is the charge resolver's parked progress for a match.
type ChargeState struct {
	Stage    ChargeStage
	Attacker CombatantID
	Target   CombatantID
	Roll     int
	Budget   float64
}

func (s *ChargeState) Reset() {
	*s = ChargeState{Attacker: NoCombatant, Target: NoCombatant}
}

// ShotState is a pending ranged attack: weapon picked, target not yet.
type ShotState struct {
	Shooter   CombatantID
	WeaponIdx int
}

func (s *ShotState) Reset() {
	*s = ShotState{Shooter: NoCombatant}
}

func (s *ShotState) Pending() bool { return s.Shooter != NoCombatant }

// FightStage names the fight orchestrator's suspend points.
type FightStage int

const (
	FightNone FightStage = iota
	// FightSelecting waits for the active player to pick an engagement.
	FightSelecting
	// FightTierTurn waits for the fight-turn player to pick a fighter at
	// the current initiative tier.
	FightTierTurn
	// FightPileIn waits for the activated fighter's pile-in destination
	// (or a skip).
	FightPileIn
	// FightAttacks waits for weapon and target picks until the fighter's
	// attack allowance runs out.
	FightAttacks
)

var fightStageNames = map[FightStage]string{
	FightNone:      "none",
	FightSelecting: "selecting",
	FightTierTurn:  "tier_turn",
	FightPileIn:    "pile_in",
	FightAttacks:   "attacks",
}

func (s FightStage) String() string {
	if n, ok := fightStageNames[s]; ok {
		return n
	}
	return "unknown"
}

// FightState is the orchestrator's parked progress for a match.
type FightState struct {
	Stage       FightStage
	Engagements [][]CombatantID
	// Selected indexes Engagements; -1 when nothing is selected.
	Selected   int
	Tier       int
	TurnPlayer PlayerID
	// ActiveFighter is the combatant mid-activation, NoCombatant otherwise.
	ActiveFighter  CombatantID
	SelectedWeapon int
	// UsedMelee records weapon indexes already selected during the current
	// activation; each melee weapon may be selected once per activation.
	UsedMelee map[int]bool
	// Committed flips once the activation has irreversible effects (a
	// pile-in move or an attack); cancellation is refused after that.
	Committed bool
}

func (s *FightState) Reset() {
	*s = FightState{Selected: -1, ActiveFighter: NoCombatant, SelectedWeapon: -1}
}

// ClearActivation drops per-fighter progress while keeping the tier loop.
func (s *FightState) ClearActivation() {
	s.ActiveFighter = NoCombatant
	s.SelectedWeapon = -1
	s.UsedMelee = nil
	s.Committed = false
}

// WeaponKey identifies one weapon of one combatant in the used-this-round
// set.
type WeaponKey struct {
	Combatant CombatantID
	Weapon    int
}

// Match is one hot-seat session: the dependency root holding the arena,
// the phase state and every resolver's parked progress. All mutation goes
// through the service layer under the embedded mutex, one command at a
// time.
type Match struct {
	sync.Mutex

	ID          string
	Code        string
	HostEmail   string
	PlayerNames [2]string
	ArmyKeys    [2]string

	Status       MatchStatus
	Round        int
	Phase        Phase
	ActivePlayer PlayerID
	// TurnsTaken counts AdvanceTurn calls inside the current phase; the
	// second one moves the phase on.
	TurnsTaken int

	// Combatants is the arena: index == CombatantID, slots never reused,
	// dead combatants stay in place.
	Combatants []*Combatant

	Charge ChargeState
	Shot   ShotState
	Fight  FightState
	// UsedRanged marks ranged weapons fired this round (both fire phases
	// share it); cleared on round wrap.
	UsedRanged map[WeaponKey]bool

	Roller dice.Roller

	Winner    string
	EndReason EndReason
	Message   string
	Log       []string

	CreatedAt    time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
	LastActionAt time.Time
	// StatsCounted prevents a finished match from updating host stats and
	// battle records twice.
	StatsCounted bool
}

// NewMatch builds an empty match in setup state. Combatants arrive at
// muster (StartMatch).
func NewMatch(id, code, hostEmail string, playerNames, armyKeys [2]string, roller dice.Roller) *Match {
	now := time.Now()
	m := &Match{
		ID:           id,
		Code:         code,
		HostEmail:    hostEmail,
		PlayerNames:  playerNames,
		ArmyKeys:     armyKeys,
		Status:       StatusSetup,
		Round:        0,
		Phase:        PhaseMovement,
		ActivePlayer: Player1,
		UsedRanged:   make(map[WeaponKey]bool),
		Roller:       roller,
		CreatedAt:    now,
		LastActionAt: now,
	}
	m.Charge.Reset()
	m.Shot.Reset()
	m.Fight.Reset()
	return m
}

// AddCombatant places c in the next arena slot and returns its ID.
func (m *Match) AddCombatant(c *Combatant) CombatantID {
	c.ID = CombatantID(len(m.Combatants))
	m.Combatants = append(m.Combatants, c)
	return c.ID
}

// ByID returns the combatant in arena slot id, or nil when the id is out
// of range. Callers must still check liveness themselves.
func (m *Match) ByID(id CombatantID) *Combatant {
	if id < 0 || int(id) >= len(m.Combatants) {
		return nil
	}
	return m.Combatants[id]
}

// Live returns every living combatant in arena order.
func (m *Match) Live() []*Combatant {
	var out []*Combatant
	for _, c := range m.Combatants {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// LiveCount counts p's living combatants; zero means p has lost.
func (m *Match) LiveCount(p PlayerID) int {
	n := 0
	for _, c := range m.Combatants {
		if c.Alive() && c.Owner == p {
			n++
		}
	}
	return n
}

// PlayerName resolves a side number to its display name.
func (m *Match) PlayerName(p PlayerID) string {
	if !p.Valid() {
		return ""
	}
	return m.PlayerNames[p-1]
}

// InProgress reports whether commands may mutate the match.
func (m *Match) InProgress() bool { return m.Status == StatusInProgress }

// AppendLog adds narration lines, trimming the front past the cap.
func (m *Match) AppendLog(lines ...string) {
	m.Log = append(m.Log, lines...)
	if over := len(m.Log) - matchLogCap; over > 0 {
		m.Log = m.Log[over:]
	}
}

// Touch refreshes the idle timestamp the reaper checks.
func (m *Match) Touch() {
	m.LastActionAt = time.Now()
}
