package service

import (
	"errors"
	"testing"

	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/roster"
)

type mockProfileRepo struct {
	profiles  []game.UnitProfile
	requested []string
}

func (r *mockProfileRepo) GetUnitProfilesByKeys(profileKeys []string) ([]game.UnitProfile, error) {
	r.requested = profileKeys
	return r.profiles, nil
}

func testArmies() map[string]*roster.ArmyList {
	return map[string]*roster.ArmyList{
		"iron": {Key: "iron", Name: "Iron Guard", Units: []roster.UnitEntry{
			{Profile: "Line Trooper", Count: 2},
		}},
		"ash": {Key: "ash", Name: "Ash Host", Units: []roster.UnitEntry{
			{Profile: "Line Trooper", Count: 2},
			{Profile: "Warden", Count: 1},
		}},
	}
}

func testProfileLibrary() []game.UnitProfile {
	return []game.UnitProfile{
		{Key: "line_trooper", Name: "Line Trooper", MovementRange: 6, Initiative: 3, Wounds: 1, BaseRadius: 5, Height: 20},
		{Key: "warden", Name: "Warden", MovementRange: 5, Initiative: 4, Wounds: 3, BaseRadius: 8, Height: 25},
	}
}

func TestStartMatchMustersAndBegins(t *testing.T) {
	repo := &mockProfileRepo{profiles: testProfileLibrary()}
	rules := engine.New(engine.Config{ConversionFactor: 10})
	m := game.NewMatch("m-1", "WARTEST1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "ash"}, nil)

	err := StartMatch(repo, rules, testArmies(), m, MatchSetup{TableWidth: 720, TableDepth: 480})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != game.StatusInProgress || m.Round != 1 || m.Phase != game.PhaseMovement {
		t.Fatalf("expected an open battle in round 1 movement, got status=%v round=%d phase=%v", m.Status, m.Round, m.Phase)
	}
	if m.ActivePlayer != game.Player1 {
		t.Fatalf("expected player one to open, got %v", m.ActivePlayer)
	}
	if len(m.Combatants) != 5 {
		t.Fatalf("expected 5 combatants mustered, got %d", len(m.Combatants))
	}
	for i, want := range []game.PlayerID{game.Player1, game.Player1, game.Player2, game.Player2, game.Player2} {
		if m.Combatants[i].Owner != want {
			t.Fatalf("combatant %d: expected owner %v, got %v", i, want, m.Combatants[i].Owner)
		}
	}
	// Both distinct profile keys fetched in one query, in first-use order.
	if len(repo.requested) != 2 || repo.requested[0] != "line_trooper" || repo.requested[1] != "warden" {
		t.Fatalf("unexpected profile fetch: %v", repo.requested)
	}
	// Opposing armies deploy on opposite edges.
	if m.Combatants[0].Position.Z >= m.Combatants[4].Position.Z {
		t.Fatalf("expected armies on opposite edges, got z=%v vs z=%v", m.Combatants[0].Position.Z, m.Combatants[4].Position.Z)
	}
	if m.StartedAt.IsZero() {
		t.Fatal("expected StartedAt stamped")
	}
}

func TestStartMatchRejectsRestart(t *testing.T) {
	repo := &mockProfileRepo{profiles: testProfileLibrary()}
	rules := engine.New(engine.Config{ConversionFactor: 10})
	m := game.NewMatch("m-1", "WARTEST1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "ash"}, nil)
	m.Status = game.StatusInProgress

	if err := StartMatch(repo, rules, testArmies(), m, MatchSetup{TableWidth: 720, TableDepth: 480}); !errors.Is(err, ErrMatchAlreadyStarted) {
		t.Fatalf("expected ErrMatchAlreadyStarted, got %v", err)
	}
}

func TestStartMatchUnknownArmy(t *testing.T) {
	repo := &mockProfileRepo{profiles: testProfileLibrary()}
	rules := engine.New(engine.Config{ConversionFactor: 10})
	m := game.NewMatch("m-1", "WARTEST1", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "ghost"}, nil)

	if err := StartMatch(repo, rules, testArmies(), m, MatchSetup{TableWidth: 720, TableDepth: 480}); !errors.Is(err, ErrUnknownArmy) {
		t.Fatalf("expected ErrUnknownArmy, got %v", err)
	}
}
