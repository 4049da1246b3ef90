package service

import (
	"errors"
	"testing"

	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

type scriptRoller struct {
	rolls []int
	next  int
}

func (r *scriptRoller) D6() int {
	if r.next >= len(r.rolls) {
		panic("dice script exhausted")
	}
	v := r.rolls[r.next]
	r.next++
	return v
}

type recordingRepo struct {
	records  []*game.BattleRecord
	resigned []string
	hosts    []string
}

func (r *recordingRepo) SaveBattleRecord(rec *game.BattleRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingRepo) UpdateStatsOnMatchEnd(rec *game.BattleRecord, resignedName string) error {
	r.resigned = append(r.resigned, resignedName)
	return nil
}

func (r *recordingRepo) CountHostedBattle(email string) error {
	r.hosts = append(r.hosts, email)
	return nil
}

func testCommands(repo ResultRepo) *Commands {
	return &Commands{Rules: engine.New(engine.Config{ConversionFactor: 10}), Repo: repo}
}

func testMatch(rolls ...int) *game.Match {
	m := game.NewMatch("m-1", "WARTEST1", "host@example.com",
		[2]string{"Ada", "Brom"}, [2]string{"iron", "ash"},
		&scriptRoller{rolls: rolls})
	m.Status = game.StatusInProgress
	m.Round = 1
	return m
}

func addFighter(m *game.Match, owner game.PlayerID, name string, x float64) *game.Combatant {
	c := &game.Combatant{
		Owner:            owner,
		Name:             name,
		MovementRange:    6,
		Initiative:       4,
		BallisticSkill:   3,
		WeaponSkill:      3,
		Strength:         4,
		Toughness:        4,
		ArmourSave:       3,
		InvulnerableSave: 7,
		MaxWounds:        2,
		Wounds:           2,
		Attacks:          1,
		BaseRadius:       1,
		Height:           4,
		Position:         geom.Vec{X: x},
		PhaseStart:       geom.Vec{X: x},
		Weapons: []game.Weapon{
			{Name: "scatter gun", Range: 120, Shots: 2, Strength: 4, ArmourPiercing: 0, Damage: 1},
			{Name: "war blade", Range: 0, Shots: 1, Strength: 4, ArmourPiercing: 0, Damage: 1},
		},
	}
	m.AddCombatant(c)
	return c
}

func TestProposeMoveRoutesByPhase(t *testing.T) {
	s := testCommands(nil)
	m := testMatch(4)
	a := addFighter(m, game.Player1, "Lancer", 0)
	b := addFighter(m, game.Player2, "Bulwark", 92)

	// Movement phase: a plain move.
	if _, err := s.ProposeMove(m, "Ada", a.ID, geom.Vec{X: 30}); err != nil {
		t.Fatalf("unexpected move error: %v", err)
	}
	if a.Position.X != 30 {
		t.Fatalf("expected combatant at x=30, got %v", a.Position)
	}

	m.Phase = game.PhaseCharge
	a.PhaseStart = a.Position
	if _, err := s.SelectChargeTarget(m, "Ada", a.ID, b.ID); err != nil {
		t.Fatalf("unexpected charge error: %v", err)
	}
	if m.Charge.Stage != game.ChargeAwaitingMove {
		t.Fatalf("expected charge waiting for its contact move, got stage %v", m.Charge.Stage)
	}

	// The same command now completes the charge instead of a plain move.
	if _, err := s.ProposeMove(m, "Ada", a.ID, geom.Vec{X: 90.5}); err != nil {
		t.Fatalf("unexpected contact move error: %v", err)
	}
	if !a.HasCharged {
		t.Fatal("expected the contact move to mark the charge")
	}
	if m.Charge.Stage != game.ChargeIdle {
		t.Fatalf("expected charge state cleared, got stage %v", m.Charge.Stage)
	}
}

func TestChargeTargetRepostWalksStraightIn(t *testing.T) {
	s := testCommands(nil)
	m := testMatch(4)
	a := addFighter(m, game.Player1, "Lancer", 0)
	b := addFighter(m, game.Player2, "Bulwark", 92)
	m.Phase = game.PhaseCharge

	if _, err := s.SelectChargeTarget(m, "Ada", a.ID, b.ID); err != nil {
		t.Fatalf("unexpected charge error: %v", err)
	}
	if m.Charge.Stage != game.ChargeAwaitingMove {
		t.Fatalf("expected charge waiting for its contact move, got stage %v", m.Charge.Stage)
	}

	// Posting the same pair again walks the attacker straight in.
	if _, err := s.SelectChargeTarget(m, "Ada", a.ID, b.ID); err != nil {
		t.Fatalf("unexpected walk-in error: %v", err)
	}
	if !a.HasCharged || a.Position.X != 90 {
		t.Fatalf("expected the attacker in contact at x=90, got charged=%v x=%.1f", a.HasCharged, a.Position.X)
	}
	if m.Charge.Stage != game.ChargeIdle {
		t.Fatalf("expected charge state cleared, got stage %v", m.Charge.Stage)
	}
}

func TestFireCommandsRouteToShooting(t *testing.T) {
	s := testCommands(nil)
	m := testMatch(3, 3, 5, 3, 1)
	a := addFighter(m, game.Player1, "Gunner", 0)
	b := addFighter(m, game.Player2, "Mark", 50)
	m.Phase = game.PhaseFirstFire

	if _, err := s.SelectWeapon(m, "Ada", a.ID, 0); err != nil {
		t.Fatalf("unexpected weapon error: %v", err)
	}
	if _, err := s.SelectTarget(m, "Ada", b.ID); err != nil {
		t.Fatalf("unexpected shot error: %v", err)
	}
	if b.Wounds != 1 {
		t.Fatalf("expected target on 1 wound, got %d", b.Wounds)
	}
}

func TestCancelCascade(t *testing.T) {
	s := testCommands(nil)
	m := testMatch(4)
	a := addFighter(m, game.Player1, "Lancer", 0)
	b := addFighter(m, game.Player2, "Bulwark", 92)
	m.Phase = game.PhaseCharge

	if _, err := s.SelectChargeTarget(m, "Ada", a.ID, b.ID); err != nil {
		t.Fatalf("unexpected charge error: %v", err)
	}
	_, ok, err := s.Cancel(m, "Ada")
	if err != nil || !ok {
		t.Fatalf("expected cancel to abort the waiting charge (ok=%v err=%v)", ok, err)
	}
	if m.Charge.Stage != game.ChargeIdle {
		t.Fatalf("expected charge idle after cancel, got stage %v", m.Charge.Stage)
	}
	_, ok, err = s.Cancel(m, "Ada")
	if err != nil || ok {
		t.Fatalf("expected nothing left to cancel (ok=%v err=%v)", ok, err)
	}
}

func TestCommandGates(t *testing.T) {
	s := testCommands(nil)
	m := testMatch()
	a := addFighter(m, game.Player1, "Lancer", 0)

	if _, err := s.ProposeMove(m, "Nosy", a.ID, geom.Vec{X: 10}); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}

	setup := game.NewMatch("m-2", "WARTEST2", "", [2]string{"Ada", "Brom"}, [2]string{"iron", "ash"}, nil)
	if _, err := s.AdvanceTurn(setup, "Ada"); !errors.Is(err, ErrMatchNotInProgress) {
		t.Fatalf("expected ErrMatchNotInProgress, got %v", err)
	}
}

func TestWipeoutPersistsResultOnce(t *testing.T) {
	repo := &recordingRepo{}
	s := testCommands(repo)
	m := testMatch(3, 3, 6, 6, 1, 1)
	a := addFighter(m, game.Player1, "Gunner", 0)
	b := addFighter(m, game.Player2, "Last Stand", 50)
	m.Phase = game.PhaseFirstFire

	if _, err := s.SelectWeapon(m, "Ada", a.ID, 0); err != nil {
		t.Fatalf("unexpected weapon error: %v", err)
	}
	if _, err := s.SelectTarget(m, "Ada", b.ID); err != nil {
		t.Fatalf("unexpected shot error: %v", err)
	}
	if m.Status != game.StatusFinished || m.Winner != "Ada" {
		t.Fatalf("expected Ada to win by wipeout, got status=%v winner=%q", m.Status, m.Winner)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected exactly one battle record, got %d", len(repo.records))
	}
	rec := repo.records[0]
	if rec.MatchCode != "WARTEST1" || rec.Winner != "Ada" || rec.EndReason != string(game.EndReasonWipeout) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(repo.hosts) != 1 || repo.hosts[0] != "host@example.com" {
		t.Fatalf("expected one hosted-battle count for the host, got %v", repo.hosts)
	}

	// The finished match refuses further commands and never double-counts.
	if err := s.EndMatch(m, "Brom"); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("expected ErrMatchFinished, got %v", err)
	}
	if len(repo.records) != 1 || len(repo.resigned) != 1 {
		t.Fatalf("expected no second persistence, got %d records / %d stat updates", len(repo.records), len(repo.resigned))
	}
}

func TestEndMatchResignation(t *testing.T) {
	repo := &recordingRepo{}
	s := testCommands(repo)
	m := testMatch()
	addFighter(m, game.Player1, "Lancer", 0)
	addFighter(m, game.Player2, "Bulwark", 50)

	if err := s.EndMatch(m, "Ada"); err != nil {
		t.Fatalf("unexpected resign error: %v", err)
	}
	if m.Winner != "Brom" || m.EndReason != game.EndReasonResignation {
		t.Fatalf("expected Brom to win by resignation, got winner=%q reason=%q", m.Winner, m.EndReason)
	}
	if len(repo.resigned) != 1 || repo.resigned[0] != "Ada" {
		t.Fatalf("expected stats update naming the resigning player, got %v", repo.resigned)
	}
	if !m.StatsCounted {
		t.Fatal("expected the match marked as counted")
	}
}
