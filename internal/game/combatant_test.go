package game

import "testing"

func testSubject() *Combatant {
	return &Combatant{
		Owner:         Player1,
		Name:          "Test Marine",
		MovementRange: 6,
		Initiative:    4,
		MaxWounds:     2,
		Wounds:        2,
		Attacks:       1,
		BaseRadius:    5,
		Height:        20,
		Weapons: []Weapon{
			{Name: "bolter", Range: 240, Shots: 2, Strength: 4, Damage: 1},
			{Name: "chainsword", Shots: 1, Strength: 4, Damage: 1},
		},
	}
}

func TestTakeDamageIsTerminal(t *testing.T) {
	c := testSubject()
	if died := c.TakeDamage(1); died {
		t.Fatalf("combatant died with a wound to spare")
	}
	if !c.TakeDamage(3) {
		t.Fatalf("lethal damage did not report death")
	}
	if c.Alive() {
		t.Fatalf("combatant alive at %d wounds", c.Wounds)
	}
	// further damage on a corpse is a no-op
	before := c.Wounds
	if c.TakeDamage(5) {
		t.Fatalf("dead combatant died again")
	}
	if c.Wounds != before {
		t.Fatalf("dead combatant lost wounds: %d -> %d", before, c.Wounds)
	}
}

func TestWeaponPartition(t *testing.T) {
	c := testSubject()
	if got := c.RangedWeaponIndexes(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("ranged indexes = %v", got)
	}
	if got := c.MeleeWeaponIndexes(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("melee indexes = %v", got)
	}
}

func TestEffectiveInitiative(t *testing.T) {
	c := testSubject()
	if got := c.EffectiveInitiative(); got != 4 {
		t.Fatalf("effective initiative = %d, want 4", got)
	}
	c.HasCharged = true
	if got := c.EffectiveInitiative(); got != 5 {
		t.Fatalf("charged effective initiative = %d, want 5", got)
	}
	c.Initiative = MaxInitiative
	if got := c.EffectiveInitiative(); got != MaxInitiative {
		t.Fatalf("charged initiative %d must clamp to %d, got %d", MaxInitiative, MaxInitiative, got)
	}
}

func TestEffectiveAttacks(t *testing.T) {
	c := testSubject()
	if got := c.EffectiveAttacks(); got != 1 {
		t.Fatalf("base attacks = %d, want 1", got)
	}
	c.HasCharged = true
	if got := c.EffectiveAttacks(); got != 2 {
		t.Fatalf("charged attacks = %d, want 2", got)
	}
	c.Weapons = append(c.Weapons, Weapon{Name: "knife", Shots: 1, Strength: 3, Damage: 1})
	if got := c.EffectiveAttacks(); got != 3 {
		t.Fatalf("charged twin-melee attacks = %d, want 3", got)
	}
}

func TestMoveAndMarchAllowance(t *testing.T) {
	c := testSubject()
	c.Initiative = 3
	if got := c.MoveAllowance(10); got != 60 {
		t.Fatalf("move allowance = %v, want 60", got)
	}
	if got := c.MarchAllowance(10); got != 90 {
		t.Fatalf("march allowance = %v, want 90", got)
	}
}

func TestMatchArena(t *testing.T) {
	m := NewMatch("id", "CODE1234", "host@example.com", [2]string{"Alice", "Bjorn"}, [2]string{"a", "b"}, nil)
	a := testSubject()
	id := m.AddCombatant(a)
	if id != 0 || a.ID != 0 {
		t.Fatalf("first arena slot = %d", id)
	}
	b := testSubject()
	b.Owner = Player2
	m.AddCombatant(b)
	if m.ByID(1) != b {
		t.Fatalf("ByID(1) did not return second combatant")
	}
	if m.ByID(7) != nil || m.ByID(NoCombatant) != nil {
		t.Fatalf("out of range lookup must return nil")
	}
	if m.LiveCount(Player1) != 1 || m.LiveCount(Player2) != 1 {
		t.Fatalf("live counts wrong: %d/%d", m.LiveCount(Player1), m.LiveCount(Player2))
	}
	b.TakeDamage(99)
	if m.LiveCount(Player2) != 0 {
		t.Fatalf("dead combatant still counted live")
	}
}
