package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/kordenlund/warmarshal/internal/game"
)

type weaponEntry struct {
	Name           string  `json:"name"`
	Range          float64 `json:"range"`
	Shots          int     `json:"shots"`
	Strength       int     `json:"strength"`
	ArmourPiercing int     `json:"armour_piercing"`
	Damage         int     `json:"damage"`
}

type profileEntry struct {
	Name             string        `json:"name"`
	Faction          string        `json:"faction"`
	MovementRange    int           `json:"movement_range"`
	Initiative       int           `json:"initiative"`
	BallisticSkill   int           `json:"ballistic_skill"`
	WeaponSkill      int           `json:"weapon_skill"`
	Strength         int           `json:"strength"`
	Toughness        int           `json:"toughness"`
	ArmourSave       int           `json:"armour_save"`
	InvulnerableSave int           `json:"invulnerable_save"`
	Wounds           int           `json:"wounds"`
	Attacks          int           `json:"attacks"`
	BaseRadius       float64       `json:"base_radius"`
	Height           float64       `json:"height"`
	Weapons          []weaponEntry `json:"weapons"`
}

type rawConfig struct {
	UnitProfiles []profileEntry `json:"unit_profiles"`
	Server       *struct {
		Address string `json:"address"`
	} `json:"server"`
	Rules *struct {
		// ConversionFactor scales tabletop inches into world units.
		ConversionFactor float64 `json:"conversion_factor"`
		// PileInOnly disables declared charges; combatants reach melee
		// through pile-in moves alone.
		PileInOnly bool    `json:"pile_in_only"`
		TableWidth float64 `json:"table_width"`
		TableDepth float64 `json:"table_depth"`
	} `json:"rules"`
	// ArmiesDir points at the directory of army list YAML files.
	ArmiesDir string `json:"armies_dir"`
	// BattleLogPath receives the engine's per-roll trace; empty disables it.
	BattleLogPath      string `json:"battle_log_path"`
	IdleTimeoutMinutes int    `json:"idle_timeout_minutes"`
}

// LoadedConfig contains unit profiles to seed and everything the server
// needs to bind, trace and time matches out.
type LoadedConfig struct {
	Profiles      []game.UnitProfile
	ServerAddress string

	ConversionFactor float64
	PileInOnly       bool
	TableWidth       float64
	TableDepth       float64

	ArmiesDir          string
	BattleLogPath      string
	IdleTimeoutMinutes int
}

// LoadConfig reads the configuration file at path and returns the profile
// library plus server settings. It requires the key `unit_profiles`
// (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	entries := rc.UnitProfiles
	if len(entries) == 0 {
		return nil, fmt.Errorf("config file %s: unit_profiles is empty (provide 'unit_profiles' array)", path)
	}

	out := make([]game.UnitProfile, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: unit profile missing 'name'", path)
		}
		if e.Wounds < 1 {
			return nil, fmt.Errorf("config file %s: profile '%s' needs at least 1 wound", path, e.Name)
		}
		if e.BaseRadius <= 0 || e.Height <= 0 {
			return nil, fmt.Errorf("config file %s: profile '%s' needs a positive base_radius and height", path, e.Name)
		}
		p := game.UnitProfile{
			Name:             e.Name,
			Faction:          e.Faction,
			MovementRange:    e.MovementRange,
			Initiative:       e.Initiative,
			BallisticSkill:   e.BallisticSkill,
			WeaponSkill:      e.WeaponSkill,
			Strength:         e.Strength,
			Toughness:        e.Toughness,
			ArmourSave:       e.ArmourSave,
			InvulnerableSave: e.InvulnerableSave,
			Wounds:           e.Wounds,
			Attacks:          e.Attacks,
			BaseRadius:       e.BaseRadius,
			Height:           e.Height,
		}
		for _, w := range e.Weapons {
			if w.Name == "" {
				return nil, fmt.Errorf("config file %s: profile '%s' has a weapon missing 'name'", path, e.Name)
			}
			if w.Shots < 1 || w.Damage < 1 {
				return nil, fmt.Errorf("config file %s: weapon '%s' of '%s' needs shots >= 1 and damage >= 1", path, w.Name, e.Name)
			}
			// Armour piercing is stored zero-or-negative: it subtracts
			// from the armour save directly.
			if w.ArmourPiercing > 0 {
				return nil, fmt.Errorf("config file %s: weapon '%s' of '%s' has positive armour_piercing (use 0 or a negative value)", path, w.Name, e.Name)
			}
			p.Weapons = append(p.Weapons, game.WeaponProfile{
				Name:           w.Name,
				Range:          w.Range,
				Shots:          w.Shots,
				Strength:       w.Strength,
				ArmourPiercing: w.ArmourPiercing,
				Damage:         w.Damage,
			})
		}
		out = append(out, p)
	}

	// Cross-entry validation: unique profile names (case-insensitive) and
	// unique weapon names within each profile, so army lists and weapon
	// picks always resolve unambiguously.
	nameSet := make(map[string]struct{}, len(out))
	for _, p := range out {
		ln := strings.ToLower(strings.TrimSpace(p.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate profile name '%s'", path, p.Name)
		}
		nameSet[ln] = struct{}{}
		weaponSet := make(map[string]struct{}, len(p.Weapons))
		for _, w := range p.Weapons {
			lw := strings.ToLower(strings.TrimSpace(w.Name))
			if _, exists := weaponSet[lw]; exists {
				return nil, fmt.Errorf("config file %s: profile '%s' has duplicate weapon name '%s'", path, p.Name, w.Name)
			}
			weaponSet[lw] = struct{}{}
		}
	}

	lc := &LoadedConfig{
		Profiles:           out,
		ServerAddress:      ":8080",
		ConversionFactor:   10,
		TableWidth:         720,
		TableDepth:         480,
		ArmiesDir:          "armies",
		IdleTimeoutMinutes: 60,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		lc.ServerAddress = rc.Server.Address
	}
	if rc.Rules != nil {
		if rc.Rules.ConversionFactor > 0 {
			lc.ConversionFactor = rc.Rules.ConversionFactor
		}
		lc.PileInOnly = rc.Rules.PileInOnly
		if rc.Rules.TableWidth > 0 {
			lc.TableWidth = rc.Rules.TableWidth
		}
		if rc.Rules.TableDepth > 0 {
			lc.TableDepth = rc.Rules.TableDepth
		}
	}
	if rc.ArmiesDir != "" {
		lc.ArmiesDir = rc.ArmiesDir
	}
	lc.BattleLogPath = strings.TrimSpace(rc.BattleLogPath)
	if rc.IdleTimeoutMinutes > 0 {
		lc.IdleTimeoutMinutes = rc.IdleTimeoutMinutes
	}
	return lc, nil
}
