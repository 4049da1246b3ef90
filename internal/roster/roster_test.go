package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kordenlund/warmarshal/internal/game"
)

const ironGuardYAML = `
name: Iron Guard
units:
  - profile: Line Trooper
    count: 3
  - profile: Warden
    name: Captain Hale
`

func testProfiles() map[string]game.UnitProfile {
	return map[string]game.UnitProfile{
		"line_trooper": {
			Key: "line_trooper", Name: "Line Trooper",
			MovementRange: 6, Initiative: 3, Wounds: 1,
			BaseRadius: 5, Height: 20,
		},
		"warden": {
			Key: "warden", Name: "Warden",
			MovementRange: 5, Initiative: 4, Wounds: 3,
			BaseRadius: 8, Height: 25,
		},
	}
}

func TestParseDefaultsCountToOne(t *testing.T) {
	l, err := Parse([]byte(ironGuardYAML))
	require.NoError(t, err)
	assert.Equal(t, "Iron Guard", l.Name)
	require.Len(t, l.Units, 2)
	assert.Equal(t, 3, l.Units[0].Count)
	assert.Equal(t, 1, l.Units[1].Count, "omitted count must default to 1")
	assert.Equal(t, "Captain Hale", l.Units[1].Name)
}

func TestParseRejectsBadLists(t *testing.T) {
	cases := []struct {
		label string
		yaml  string
	}{
		{"missing name", "units:\n  - profile: Line Trooper\n"},
		{"no units", "name: Ghost Army\n"},
		{"missing profile", "name: Broken\nunits:\n  - count: 2\n"},
		{"negative count", "name: Broken\nunits:\n  - profile: Line Trooper\n    count: -1\n"},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.yaml))
		assert.Error(t, err, c.label)
	}
}

func TestProfileKeysDeduplicates(t *testing.T) {
	l := &ArmyList{
		Name: "Mixed",
		Units: []UnitEntry{
			{Profile: "Line Trooper", Count: 2},
			{Profile: "Warden", Count: 1},
			{Profile: "line trooper", Count: 1},
		},
	}
	assert.Equal(t, []string{"line_trooper", "warden"}, l.ProfileKeys())
}

func TestMusterDeploysAlongEdges(t *testing.T) {
	l, err := Parse([]byte(ironGuardYAML))
	require.NoError(t, err)

	m := game.NewMatch("m-1", "WARCODE1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "iron"}, nil)
	require.NoError(t, l.Muster(m, game.Player1, testProfiles(), 720, 480))
	require.NoError(t, l.Muster(m, game.Player2, testProfiles(), 720, 480))
	require.Len(t, m.Combatants, 8)

	// Player1's four fighters sit on the low edge, spread evenly; the
	// widest base in the list (the warden's 8) sets the edge inset.
	first := m.Combatants[0]
	assert.Equal(t, game.Player1, first.Owner)
	assert.Equal(t, "Line Trooper #1", first.Name)
	assert.InDelta(t, 144.0, first.Position.X, 1e-9)
	assert.InDelta(t, 8.0, first.Position.Z, 1e-9)
	assert.Equal(t, first.Position, first.PhaseStart)

	captain := m.Combatants[3]
	assert.Equal(t, "Captain Hale", captain.Name)
	assert.InDelta(t, 576.0, captain.Position.X, 1e-9)

	// Player2 mirrors on the high edge.
	foe := m.Combatants[4]
	assert.Equal(t, game.Player2, foe.Owner)
	assert.InDelta(t, 472.0, foe.Position.Z, 1e-9)
}

func TestMusterUnknownProfileFails(t *testing.T) {
	l := &ArmyList{Name: "Lost", Units: []UnitEntry{{Profile: "Ghost Walker", Count: 1}}}
	m := game.NewMatch("m-1", "WARCODE1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "iron"}, nil)
	err := l.Muster(m, game.Player1, testProfiles(), 720, 480)
	assert.ErrorContains(t, err, "unknown unit profile")
}

func TestMusterRejectsOvercrowdedTable(t *testing.T) {
	l := &ArmyList{Name: "Horde", Units: []UnitEntry{{Profile: "Warden", Count: 30}}}
	m := game.NewMatch("m-1", "WARCODE1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "iron"}, nil)
	err := l.Muster(m, game.Player1, testProfiles(), 480, 480)
	assert.ErrorContains(t, err, "does not fit")
}

func TestLoadDirKeysByFileStem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Iron-Guard.yaml"), []byte(ironGuardYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an army"), 0o644))

	lists, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	l, ok := lists["iron-guard"]
	require.True(t, ok, "list must be keyed by lowercased file stem")
	assert.Equal(t, "iron-guard", l.Key)
	assert.Equal(t, "Iron Guard", l.Name)
}
