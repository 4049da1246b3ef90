package game

import (
	"time"

	"gorm.io/gorm"
)

// UnitProfile is the persisted template combatants are mustered from.
// Profiles are static game data: seeded from the server config at startup
// and referenced by key from army lists. Match state itself is never
// persisted.
type UnitProfile struct {
	gorm.Model
	// Key is the canonical lookup key derived from Name (see keys.ProfileKey).
	Key     string `json:"key" gorm:"uniqueIndex"`
	Name    string `json:"name"`
	Faction string `json:"faction"`

	MovementRange    int     `json:"movement_range"`
	Initiative       int     `json:"initiative"`
	BallisticSkill   int     `json:"ballistic_skill"`
	WeaponSkill      int     `json:"weapon_skill"`
	Strength         int     `json:"strength"`
	Toughness        int     `json:"toughness"`
	ArmourSave       int     `json:"armour_save"`
	InvulnerableSave int     `json:"invulnerable_save"`
	Wounds           int     `json:"wounds"`
	Attacks          int     `json:"attacks"`
	BaseRadius       float64 `json:"base_radius"`
	Height           float64 `json:"height"`

	Weapons []WeaponProfile `json:"weapons"`
}

func (UnitProfile) TableName() string { return "unit_profiles" }

// WeaponProfile is one weapon row of a unit profile. Range is in world
// units (zero = melee); ArmourPiercing is stored zero-or-negative.
type WeaponProfile struct {
	gorm.Model
	UnitProfileID  uint    `json:"-"`
	Name           string  `json:"name"`
	Range          float64 `json:"range"`
	Shots          int     `json:"shots"`
	Strength       int     `json:"strength"`
	ArmourPiercing int     `json:"armour_piercing"`
	Damage         int     `json:"damage"`
}

func (WeaponProfile) TableName() string { return "weapon_profiles" }

// Muster builds a fresh combatant from the profile for the given owner.
// The returned combatant has no arena ID yet; Match.AddCombatant assigns
// one.
func (p *UnitProfile) Muster(owner PlayerID, name string) *Combatant {
	c := &Combatant{
		ID:               NoCombatant,
		Owner:            owner,
		Name:             name,
		Faction:          p.Faction,
		ProfileKey:       p.Key,
		MovementRange:    p.MovementRange,
		Initiative:       p.Initiative,
		BallisticSkill:   p.BallisticSkill,
		WeaponSkill:      p.WeaponSkill,
		Strength:         p.Strength,
		Toughness:        p.Toughness,
		ArmourSave:       p.ArmourSave,
		InvulnerableSave: p.InvulnerableSave,
		MaxWounds:        p.Wounds,
		Wounds:           p.Wounds,
		Attacks:          p.Attacks,
		BaseRadius:       p.BaseRadius,
		Height:           p.Height,
	}
	c.Weapons = make([]Weapon, 0, len(p.Weapons))
	for _, w := range p.Weapons {
		c.Weapons = append(c.Weapons, Weapon{
			Name:           w.Name,
			Range:          w.Range,
			Shots:          w.Shots,
			Strength:       w.Strength,
			ArmourPiercing: w.ArmourPiercing,
			Damage:         w.Damage,
		})
	}
	return c
}

// BattleRecord is the persisted outcome of one finished match. It is a
// result row, not a save game: a match cannot be resumed from it.
type BattleRecord struct {
	gorm.Model
	MatchCode  string    `json:"match_code" gorm:"index"`
	HostEmail  string    `json:"-" gorm:"index"`
	PlayerOne  string    `json:"player_one"`
	PlayerTwo  string    `json:"player_two"`
	Winner     string    `json:"winner"`
	Rounds     int       `json:"rounds"`
	EndReason  string    `json:"end_reason"`
	FinishedAt time.Time `json:"finished_at"`
}

func (BattleRecord) TableName() string { return "battle_records" }

// PlayerStats aggregates results per table-player display name. Hot-seat
// players are not accounts, so the leaderboard keys on the name they play
// under.
type PlayerStats struct {
	gorm.Model
	PlayerName   string `json:"player_name" gorm:"uniqueIndex"`
	Battles      int    `json:"battles"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Resignations int    `json:"resignations"`
}

func (PlayerStats) TableName() string { return "player_stats" }

// User stores the identity of a signed-in match host and hosting
// aggregates.
type User struct {
	gorm.Model
	Name          string `json:"name"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	BattlesHosted int    `json:"battles_hosted"`
}

func (User) TableName() string { return "host_profiles" }
