package api

import (
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// The view structs are the wire shape of a match snapshot: everything a
// client needs to render the table and the current suspend state, nothing
// it could abuse (no roller, no host email).

type combatantView struct {
	ID         game.CombatantID `json:"id"`
	Owner      int              `json:"owner"`
	Name       string           `json:"name"`
	Faction    string           `json:"faction,omitempty"`
	ProfileKey string           `json:"profile_key,omitempty"`

	MovementRange    int `json:"movement_range"`
	Initiative       int `json:"initiative"`
	BallisticSkill   int `json:"ballistic_skill"`
	WeaponSkill      int `json:"weapon_skill"`
	Strength         int `json:"strength"`
	Toughness        int `json:"toughness"`
	ArmourSave       int `json:"armour_save"`
	InvulnerableSave int `json:"invulnerable_save"`
	MaxWounds        int `json:"max_wounds"`
	Wounds           int `json:"wounds"`
	Attacks          int `json:"attacks"`

	BaseRadius float64 `json:"base_radius"`
	Height     float64 `json:"height"`

	Weapons []game.Weapon `json:"weapons"`

	Position geom.Vec `json:"position"`
	Alive    bool     `json:"alive"`

	HasMoved   bool `json:"has_moved"`
	HasMarched bool `json:"has_marched"`
	HasCharged bool `json:"has_charged"`
	HasFought  bool `json:"has_fought"`

	RemainingMove  float64 `json:"remaining_move"`
	RemainingMarch float64 `json:"remaining_march"`
}

type chargeView struct {
	Stage    string           `json:"stage"`
	Attacker game.CombatantID `json:"attacker"`
	Target   game.CombatantID `json:"target"`
	Roll     int              `json:"roll,omitempty"`
	Budget   float64          `json:"budget,omitempty"`
}

type shotView struct {
	Shooter   game.CombatantID `json:"shooter"`
	WeaponIdx int              `json:"weapon_idx"`
}

type fightView struct {
	Stage          string               `json:"stage"`
	Engagements    [][]game.CombatantID `json:"engagements"`
	Selected       int                  `json:"selected"`
	Tier           int                  `json:"tier"`
	TurnPlayer     int                  `json:"turn_player"`
	ActiveFighter  game.CombatantID     `json:"active_fighter"`
	SelectedWeapon int                  `json:"selected_weapon"`
	Committed      bool                 `json:"committed"`
}

type matchView struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Status       string `json:"status"`
	Round        int    `json:"round"`
	Phase        string `json:"phase"`
	ActivePlayer int    `json:"active_player"`
	TurnsTaken   int    `json:"turns_taken"`

	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
	ArmyOne   string `json:"army_one"`
	ArmyTwo   string `json:"army_two"`

	Winner    string `json:"winner,omitempty"`
	EndReason string `json:"end_reason,omitempty"`
	Message   string `json:"message,omitempty"`

	Combatants []combatantView `json:"combatants"`
	Charge     chargeView      `json:"charge"`
	Shot       *shotView       `json:"shot,omitempty"`
	Fight      fightView       `json:"fight"`

	Log []string `json:"log"`
}

// buildMatchView snapshots m. The caller must hold the match lock.
func buildMatchView(m *game.Match) *matchView {
	v := &matchView{
		ID:           m.ID,
		Code:         m.Code,
		Status:       string(m.Status),
		Round:        m.Round,
		Phase:        m.Phase.String(),
		ActivePlayer: int(m.ActivePlayer),
		TurnsTaken:   m.TurnsTaken,
		PlayerOne:    m.PlayerNames[0],
		PlayerTwo:    m.PlayerNames[1],
		ArmyOne:      m.ArmyKeys[0],
		ArmyTwo:      m.ArmyKeys[1],
		Winner:       m.Winner,
		EndReason:    string(m.EndReason),
		Message:      m.Message,
		Charge: chargeView{
			Stage:    m.Charge.Stage.String(),
			Attacker: m.Charge.Attacker,
			Target:   m.Charge.Target,
			Roll:     m.Charge.Roll,
			Budget:   m.Charge.Budget,
		},
		Fight: fightView{
			Stage:          m.Fight.Stage.String(),
			Engagements:    m.Fight.Engagements,
			Selected:       m.Fight.Selected,
			Tier:           m.Fight.Tier,
			TurnPlayer:     int(m.Fight.TurnPlayer),
			ActiveFighter:  m.Fight.ActiveFighter,
			SelectedWeapon: m.Fight.SelectedWeapon,
			Committed:      m.Fight.Committed,
		},
		Log: append([]string(nil), m.Log...),
	}
	if m.Shot.Pending() {
		v.Shot = &shotView{Shooter: m.Shot.Shooter, WeaponIdx: m.Shot.WeaponIdx}
	}
	v.Combatants = make([]combatantView, 0, len(m.Combatants))
	for _, c := range m.Combatants {
		v.Combatants = append(v.Combatants, combatantView{
			ID:               c.ID,
			Owner:            int(c.Owner),
			Name:             c.Name,
			Faction:          c.Faction,
			ProfileKey:       c.ProfileKey,
			MovementRange:    c.MovementRange,
			Initiative:       c.Initiative,
			BallisticSkill:   c.BallisticSkill,
			WeaponSkill:      c.WeaponSkill,
			Strength:         c.Strength,
			Toughness:        c.Toughness,
			ArmourSave:       c.ArmourSave,
			InvulnerableSave: c.InvulnerableSave,
			MaxWounds:        c.MaxWounds,
			Wounds:           c.Wounds,
			Attacks:          c.Attacks,
			BaseRadius:       c.BaseRadius,
			Height:           c.Height,
			Weapons:          c.Weapons,
			Position:         c.Position,
			Alive:            c.Alive(),
			HasMoved:         c.HasMoved,
			HasMarched:       c.HasMarched,
			HasCharged:       c.HasCharged,
			HasFought:        c.HasFought,
			RemainingMove:    c.RemainingMove,
			RemainingMarch:   c.RemainingMarch,
		})
	}
	return v
}
