// Package roster loads army list files and musters them onto the table.
// An army list is a small YAML document naming unit profiles and counts;
// the profile library itself lives in the database and server config.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
	"github.com/kordenlund/warmarshal/internal/keys"
)

// UnitEntry is one line of an army list: which profile to muster, how
// many copies, and an optional display name override.
type UnitEntry struct {
	Profile string `yaml:"profile"`
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
}

// ArmyList is a named, ordered selection of unit profiles. Key is the
// file stem the list was loaded under and is how matches reference it.
type ArmyList struct {
	Key   string      `yaml:"-"`
	Name  string      `yaml:"name"`
	Units []UnitEntry `yaml:"units"`
}

// Parse decodes and validates a single army list document. A missing
// count defaults to 1.
func Parse(b []byte) (*ArmyList, error) {
	var l ArmyList
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	for i := range l.Units {
		if l.Units[i].Count == 0 {
			l.Units[i].Count = 1
		}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *ArmyList) validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("army list missing 'name'")
	}
	if len(l.Units) == 0 {
		return fmt.Errorf("army list '%s' has no units", l.Name)
	}
	for _, u := range l.Units {
		if strings.TrimSpace(u.Profile) == "" {
			return fmt.Errorf("army list '%s': unit entry missing 'profile'", l.Name)
		}
		if u.Count < 1 {
			return fmt.Errorf("army list '%s': unit '%s' needs count >= 1", l.Name, u.Profile)
		}
	}
	return nil
}

// LoadDir reads every *.yaml / *.yml file under dir into a library keyed
// by file stem (lowercased).
func LoadDir(dir string) (map[string]*ArmyList, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read armies dir %s: %w", dir, err)
	}
	lists := make(map[string]*ArmyList)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read army list %s: %w", e.Name(), err)
		}
		l, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("army list %s: %w", e.Name(), err)
		}
		l.Key = strings.TrimSuffix(strings.ToLower(e.Name()), ext)
		lists[l.Key] = l
	}
	return lists, nil
}

// ProfileKeys returns the distinct canonical profile keys the list
// references, in first-use order. Callers use it to fetch the profiles in
// one query.
func (l *ArmyList) ProfileKeys() []string {
	seen := make(map[string]struct{}, len(l.Units))
	var out []string
	for _, u := range l.Units {
		k := keys.ProfileKey(u.Profile)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Muster builds the list's combatants for owner and deploys them along
// the owner's table edge: Player1 on the low-depth edge, Player2 on the
// high-depth edge, both spread evenly across the table width. profiles
// must be keyed by canonical profile key.
func (l *ArmyList) Muster(m *game.Match, owner game.PlayerID, profiles map[string]game.UnitProfile, tableWidth, tableDepth float64) error {
	type slot struct {
		profile game.UnitProfile
		name    string
	}
	var slots []slot
	maxRadius := 0.0
	for _, u := range l.Units {
		p, ok := profiles[keys.ProfileKey(u.Profile)]
		if !ok {
			return fmt.Errorf("army list '%s': unknown unit profile '%s'", l.Name, u.Profile)
		}
		if p.BaseRadius > maxRadius {
			maxRadius = p.BaseRadius
		}
		base := u.Name
		if base == "" {
			base = p.Name
		}
		for i := 1; i <= u.Count; i++ {
			name := base
			if u.Count > 1 {
				name = fmt.Sprintf("%s #%d", base, i)
			}
			slots = append(slots, slot{profile: p, name: name})
		}
	}

	spacing := tableWidth / float64(len(slots)+1)
	if spacing < 2*maxRadius {
		return fmt.Errorf("army list '%s' does not fit on a table %.0f wide", l.Name, tableWidth)
	}
	edge := maxRadius
	if owner == game.Player2 {
		edge = tableDepth - maxRadius
	}
	for i, s := range slots {
		c := s.profile.Muster(owner, s.name)
		c.Position = geom.Vec{X: spacing * float64(i+1), Z: edge}
		c.PhaseStart = c.Position
		m.AddCombatant(c)
	}
	return nil
}
