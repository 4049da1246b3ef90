package game

import "github.com/kordenlund/warmarshal/internal/geom"

// PlayerID numbers the two sides of a match.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p PlayerID) Valid() bool { return p == Player1 || p == Player2 }

// CombatantID is a stable arena index into Match.Combatants. IDs are never
// reused within a match, so dead combatants keep their slot.
type CombatantID int

// NoCombatant marks an absent combatant reference in suspend states.
const NoCombatant CombatantID = -1

// MaxInitiative caps the effective initiative scale; the Fight phase
// resolves tiers from this value down to 1.
const MaxInitiative = 10

// Weapon is an immutable stat bundle owned by exactly one combatant.
// Range is in world units; zero range means melee. ArmourPiercing is
// stored as zero-or-negative: subtracting it from the target's armour save
// worsens the save.
type Weapon struct {
	Name           string  `json:"name"`
	Range          float64 `json:"range"`
	Shots          int     `json:"shots"`
	Strength       int     `json:"strength"`
	ArmourPiercing int     `json:"armour_piercing"`
	Damage         int     `json:"damage"`
}

func (w Weapon) IsMelee() bool { return w.Range == 0 }

// Combatant is one model on the table.
type Combatant struct {
	ID         CombatantID
	Owner      PlayerID
	Name       string
	Faction    string
	ProfileKey string

	// Statline. Skill and save values are roll-needed thresholds
	// (BallisticSkill 3 hits on 3+). InvulnerableSave 7 means none.
	MovementRange    int
	Initiative       int
	BallisticSkill   int
	WeaponSkill      int
	Strength         int
	Toughness        int
	ArmourSave       int
	InvulnerableSave int
	MaxWounds        int
	Wounds           int
	Attacks          int

	// Footprint in world units.
	BaseRadius float64
	Height     float64

	Weapons []Weapon

	Position   geom.Vec
	PhaseStart geom.Vec

	// Per-round flags, cleared on round wrap.
	HasMoved   bool
	HasMarched bool
	HasCharged bool
	HasFought  bool

	// Remaining allowances in world units, refreshed on round wrap.
	RemainingMove  float64
	RemainingMarch float64

	// Valid only during an active Fight activation.
	RemainingAttacks int
}

func (c *Combatant) Alive() bool { return c.Wounds > 0 }

// Volume is the bounding cylinder collision and contact tests run against.
func (c *Combatant) Volume() geom.Cylinder {
	return geom.Cylinder{Center: c.Position, Radius: c.BaseRadius, Height: c.Height}
}

// VolumeAt is the bounding cylinder the combatant would occupy at pos,
// used to test proposed destinations before committing them.
func (c *Combatant) VolumeAt(pos geom.Vec) geom.Cylinder {
	return geom.Cylinder{Center: pos, Radius: c.BaseRadius, Height: c.Height}
}

// TakeDamage applies damage and reports whether the combatant died from it.
// Death is terminal: wounds never recover and a dead combatant takes no
// further part in the match.
func (c *Combatant) TakeDamage(n int) bool {
	if !c.Alive() || n <= 0 {
		return false
	}
	c.Wounds -= n
	return c.Wounds <= 0
}

// MoveAllowance is the full normal-move budget in world units.
func (c *Combatant) MoveAllowance(k float64) float64 {
	return float64(c.MovementRange) * k
}

// MarchAllowance is the full march budget in world units. Faster-reacting
// models march further: initiative is added to the movement range.
func (c *Combatant) MarchAllowance(k float64) float64 {
	return float64(c.MovementRange+c.Initiative) * k
}

// EffectiveInitiative orders Fight activations: base initiative, +1 for a
// charging model, clamped to the tier scale so a charged 10 still fights in
// the top tier instead of falling off it.
func (c *Combatant) EffectiveInitiative() int {
	ini := c.Initiative
	if c.HasCharged {
		ini++
	}
	if ini > MaxInitiative {
		ini = MaxInitiative
	}
	return ini
}

// EffectiveAttacks is the attack allowance for one Fight activation:
// base attacks, +1 for charging, +1 for carrying two or more melee weapons.
func (c *Combatant) EffectiveAttacks() int {
	n := c.Attacks
	if c.HasCharged {
		n++
	}
	if len(c.MeleeWeaponIndexes()) >= 2 {
		n++
	}
	return n
}

// MeleeWeaponIndexes returns the indexes into Weapons that are melee.
func (c *Combatant) MeleeWeaponIndexes() []int {
	var out []int
	for i, w := range c.Weapons {
		if w.IsMelee() {
			out = append(out, i)
		}
	}
	return out
}

// RangedWeaponIndexes returns the indexes into Weapons that shoot.
func (c *Combatant) RangedWeaponIndexes() []int {
	var out []int
	for i, w := range c.Weapons {
		if !w.IsMelee() {
			out = append(out, i)
		}
	}
	return out
}
