package engine

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
)

// pileInRange bounds the pile-in move, in tabletop units.
const pileInRange = 3

// FightOrchestrator runs the fight phase: engagement discovery, fight
// selection, the descending initiative loop and per-fighter activations.
// Its parked progress lives on the match (game.FightState); the
// orchestrator itself is stateless and shared.
//
// Inside a committed fight the activation turn belongs to
// FightState.TurnPlayer, not the match's active player; the active player
// only picks which engagement resolves next.
type FightOrchestrator struct {
	k          float64
	combat     *CombatResolver
	turns      *TurnMachine
	pileInOnly bool
	trace      *zap.Logger
}

// discover rebuilds the engagement set from scratch: pairwise volume
// overlaps over live combatants, connected components via union-find,
// components of size two or more with both sides represented. Runs on
// fight phase entry; returns the number of engagements found.
func (o *FightOrchestrator) discover(rc *resolveContext) int {
	m := rc.m
	uf := newUnionFind(len(m.Combatants))
	live := m.Live()
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			if geom.Overlaps(live[i].Volume(), live[j].Volume()) {
				uf.union(int(live[i].ID), int(live[j].ID))
			}
		}
	}

	groups := make(map[int][]game.CombatantID)
	for _, c := range live {
		root := uf.find(int(c.ID))
		groups[root] = append(groups[root], c.ID)
	}
	var engagements [][]game.CombatantID
	for _, members := range groups {
		if len(members) < 2 || !mixedOwners(m, members) {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		engagements = append(engagements, members)
	}
	// Arena ids are stable, so sorting by leading member makes the result
	// independent of pair evaluation order.
	sort.Slice(engagements, func(i, j int) bool { return engagements[i][0] < engagements[j][0] })

	m.Fight.Reset()
	if len(engagements) == 0 {
		return 0
	}
	m.Fight.Stage = game.FightSelecting
	m.Fight.Engagements = engagements
	o.trace.Info("engagements", zap.String("match", m.Code), zap.Int("count", len(engagements)))
	for _, members := range engagements {
		rc.add("locked in melee: %s", o.memberNames(m, members))
	}
	return len(engagements)
}

// SelectFight picks the engagement containing the given combatant. The
// active player chooses; re-selecting before the fight begins just moves
// the highlight.
func (o *FightOrchestrator) SelectFight(m *game.Match, player game.PlayerID, id game.CombatantID) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	if m.Fight.Stage != game.FightSelecting {
		return nil, reject(ErrPhaseMismatch, "no fight is open for selection")
	}
	idx := -1
	for i, members := range m.Fight.Engagements {
		for _, mid := range members {
			if mid == id {
				idx = i
				break
			}
		}
		if idx >= 0 {
			break
		}
	}
	if idx < 0 {
		return nil, reject(ErrInvalidTarget, "that combatant is not locked in any engagement")
	}
	members := m.Fight.Engagements[idx]
	if len(o.liveMembers(m, members, player)) == 0 {
		return nil, reject(ErrInvalidTarget, "none of your combatants fight in that engagement")
	}

	rc := newContext(m)
	m.Fight.Selected = idx
	rc.add("%s singles out the fight between %s", m.PlayerName(player), o.memberNames(m, members))
	return rc.commit(), nil
}

// BeginFight commits to resolving the selected engagement and opens the
// initiative loop at the highest tier with fighters.
func (o *FightOrchestrator) BeginFight(m *game.Match, player game.PlayerID) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if err := requireTurn(m, player); err != nil {
		return nil, err
	}
	if m.Fight.Stage != game.FightSelecting {
		return nil, reject(ErrPhaseMismatch, "no fight is open for selection")
	}
	if m.Fight.Selected < 0 {
		return nil, reject(ErrNoSelection, "select an engagement before committing to the fight")
	}

	rc := newContext(m)
	rc.add("the fight between %s begins", o.memberNames(m, m.Fight.Engagements[m.Fight.Selected]))
	m.Fight.Tier = game.MaxInitiative + 1
	o.seekTier(rc)
	return rc.commit(), nil
}

// SelectFighter activates one of the turn player's eligible fighters at
// the current initiative tier.
func (o *FightOrchestrator) SelectFighter(m *game.Match, player game.PlayerID, id game.CombatantID) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if m.Fight.Stage != game.FightTierTurn {
		return nil, reject(ErrPhaseMismatch, "no fighter pick is awaited")
	}
	if err := o.fightTurn(m, player); err != nil {
		return nil, err
	}
	c, err := ownCombatant(m, player, id)
	if err != nil {
		return nil, err
	}
	if !o.isMember(m, id) {
		return nil, reject(ErrInvalidTarget, "%s is not part of this fight", c.Name)
	}
	if c.HasFought {
		return nil, reject(ErrIneligibleCombatant, "%s already fought this round", c.Name)
	}
	if c.EffectiveInitiative() != m.Fight.Tier {
		return nil, reject(ErrIneligibleCombatant, "%s fights at initiative %d, not the current tier %d",
			c.Name, c.EffectiveInitiative(), m.Fight.Tier)
	}

	rc := newContext(m)
	m.Fight.ActiveFighter = id
	m.Fight.SelectedWeapon = -1
	m.Fight.UsedMelee = make(map[int]bool)
	m.Fight.Committed = false
	m.Fight.Stage = game.FightPileIn
	c.RemainingAttacks = c.EffectiveAttacks()
	rc.add("%s's %s steps up (%d attacks)", rc.owner(c), c.Name, c.RemainingAttacks)
	return rc.commit(), nil
}

// ConfirmPileIn moves the active fighter up to the pile-in bound, ending
// in contact with a live enemy of the fight. A nil destination declines
// the move. A destination that misses contact is rejected and the fighter
// keeps waiting, so the player may retry or decline.
func (o *FightOrchestrator) ConfirmPileIn(m *game.Match, player game.PlayerID, dest *geom.Vec) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if m.Fight.Stage != game.FightPileIn {
		return nil, reject(ErrPhaseMismatch, "no pile-in move is awaited")
	}
	if err := o.fightTurn(m, player); err != nil {
		return nil, err
	}
	f := m.ByID(m.Fight.ActiveFighter)

	rc := newContext(m)
	if dest != nil {
		d := geom.PlanarDist(f.Position, *dest)
		bound := pileInRange * o.k
		if d > bound {
			return nil, reject(ErrOutOfRange, "pile-in of %.1f exceeds the %.1f bound", d, bound)
		}
		if !o.touchesEnemyAt(m, f, *dest) {
			return nil, reject(ErrInvalidTarget, "the pile-in must end in contact with an enemy of this fight")
		}
		if hit := o.outsiderAt(m, f, *dest); hit != nil {
			return nil, reject(ErrInvalidTarget, "that spot collides with %s, who is not part of this fight", hit.Name)
		}
		f.Position = *dest
		m.Fight.Committed = true
		rc.add("%s piles in", f.Name)
	} else {
		rc.add("%s holds position", f.Name)
	}

	if o.pileInOnly {
		o.endActivation(rc)
		return rc.commit(), nil
	}
	if len(f.MeleeWeaponIndexes()) == 0 {
		rc.add("%s has no melee weapon to swing", f.Name)
		o.endActivation(rc)
		return rc.commit(), nil
	}
	if len(o.contactEnemies(m, f)) == 0 {
		rc.add("%s cannot reach an enemy", f.Name)
		o.endActivation(rc)
		return rc.commit(), nil
	}
	m.Fight.Stage = game.FightAttacks
	return rc.commit(), nil
}

// SelectWeapon picks which melee weapon the active fighter swings next.
// Each melee weapon may be selected once per activation; attacks under a
// selection may repeat until the allowance runs out.
func (o *FightOrchestrator) SelectWeapon(m *game.Match, player game.PlayerID, id game.CombatantID, weaponIdx int) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if m.Fight.Stage != game.FightAttacks {
		return nil, reject(ErrPhaseMismatch, "no weapon pick is awaited")
	}
	if err := o.fightTurn(m, player); err != nil {
		return nil, err
	}
	f := m.ByID(m.Fight.ActiveFighter)
	if id != f.ID {
		return nil, reject(ErrInvalidTarget, "it is %s's activation", f.Name)
	}
	if weaponIdx < 0 || weaponIdx >= len(f.Weapons) {
		return nil, reject(ErrInvalidTarget, "%s has no weapon at slot %d", f.Name, weaponIdx)
	}
	wp := f.Weapons[weaponIdx]
	if !wp.IsMelee() {
		return nil, reject(ErrInvalidTarget, "%s is not a melee weapon", wp.Name)
	}
	if m.Fight.UsedMelee[weaponIdx] {
		return nil, reject(ErrIneligibleCombatant, "the %s has already been used this activation", wp.Name)
	}

	rc := newContext(m)
	m.Fight.SelectedWeapon = weaponIdx
	m.Fight.UsedMelee[weaponIdx] = true
	rc.add("%s brandishes the %s", f.Name, wp.Name)
	return rc.commit(), nil
}

// SelectAttackTarget swings the selected weapon at an enemy in contact.
// Spends one attack from the fighter's allowance; the activation ends
// when the allowance is out or nothing is left in reach.
func (o *FightOrchestrator) SelectAttackTarget(m *game.Match, player game.PlayerID, targetID game.CombatantID) ([]string, error) {
	if m.Phase != game.PhaseFight {
		return nil, reject(ErrPhaseMismatch, "fights happen in the fight phase, not %s", m.Phase)
	}
	if m.Fight.Stage != game.FightAttacks {
		return nil, reject(ErrPhaseMismatch, "no attack is awaited")
	}
	if err := o.fightTurn(m, player); err != nil {
		return nil, err
	}
	if m.Fight.SelectedWeapon < 0 {
		return nil, reject(ErrNoSelection, "select a melee weapon first")
	}
	f := m.ByID(m.Fight.ActiveFighter)
	tgt, err := enemyCombatant(m, player, targetID)
	if err != nil {
		return nil, err
	}
	if !o.isMember(m, targetID) {
		return nil, reject(ErrInvalidTarget, "%s is not part of this fight", tgt.Name)
	}
	if !geom.Overlaps(f.Volume(), tgt.Volume()) {
		return nil, reject(ErrInvalidTarget, "%s is not in contact with %s", f.Name, tgt.Name)
	}

	rc := newContext(m)
	m.Fight.Committed = true
	f.RemainingAttacks--
	o.combat.ResolveAttack(rc, f, f.Weapons[m.Fight.SelectedWeapon], tgt)
	if !tgt.Alive() {
		o.pruneDead(m)
		if checkVictory(rc) {
			return rc.commit(), nil
		}
	}
	if f.RemainingAttacks <= 0 {
		rc.add("%s is spent", f.Name)
		o.endActivation(rc)
		return rc.commit(), nil
	}
	if len(o.contactEnemies(m, f)) == 0 {
		rc.add("%s has nothing left in reach", f.Name)
		o.endActivation(rc)
		return rc.commit(), nil
	}
	return rc.commit(), nil
}

// Cancel rolls back whatever uncommitted fight step is in flight: an
// engagement highlight, or an activation that has not yet moved or
// struck. Reports whether anything was rolled back.
func (o *FightOrchestrator) Cancel(m *game.Match, player game.PlayerID) ([]string, bool) {
	if m.Phase != game.PhaseFight {
		return nil, false
	}
	switch m.Fight.Stage {
	case game.FightSelecting:
		if player != m.ActivePlayer || m.Fight.Selected < 0 {
			return nil, false
		}
		rc := newContext(m)
		m.Fight.Selected = -1
		rc.add("%s sets the fight aside", m.PlayerName(player))
		return rc.commit(), true
	case game.FightPileIn, game.FightAttacks:
		if player != m.Fight.TurnPlayer || m.Fight.Committed {
			return nil, false
		}
		rc := newContext(m)
		if f := m.ByID(m.Fight.ActiveFighter); f != nil {
			f.RemainingAttacks = 0
			rc.add("%s stands down", f.Name)
		}
		m.Fight.ClearActivation()
		m.Fight.Stage = game.FightTierTurn
		return rc.commit(), true
	}
	return nil, false
}

// endActivation marks the active fighter fought and hands the fight turn
// on.
func (o *FightOrchestrator) endActivation(rc *resolveContext) {
	m := rc.m
	if f := m.ByID(m.Fight.ActiveFighter); f != nil {
		f.HasFought = true
		f.RemainingAttacks = 0
	}
	m.Fight.ClearActivation()
	o.nextFightTurn(rc)
}

// nextFightTurn continues the initiative loop after an activation:
// alternate within the tier (skipping a side with nothing left), then
// descend to the next tier with fighters, then complete the engagement.
func (o *FightOrchestrator) nextFightTurn(rc *resolveContext) {
	m := rc.m
	if o.engagementDone(m) {
		o.completeEngagement(rc)
		return
	}
	members := m.Fight.Engagements[m.Fight.Selected]
	opp := m.Fight.TurnPlayer.Opponent()
	if len(o.eligibleFor(m, members, m.Fight.Tier, opp)) > 0 {
		m.Fight.TurnPlayer = opp
		o.awaitFighter(rc)
		return
	}
	if len(o.eligibleFor(m, members, m.Fight.Tier, m.Fight.TurnPlayer)) > 0 {
		o.awaitFighter(rc)
		return
	}
	o.seekTier(rc)
}

// seekTier descends from just below the current tier to the next one with
// eligible fighters. Player 1 leads each fresh tier; a side with nobody
// at the tier is skipped. No tier left means the engagement is done.
func (o *FightOrchestrator) seekTier(rc *resolveContext) {
	m := rc.m
	if o.engagementDone(m) {
		o.completeEngagement(rc)
		return
	}
	members := m.Fight.Engagements[m.Fight.Selected]
	for t := m.Fight.Tier - 1; t >= 1; t-- {
		p1 := o.eligibleFor(m, members, t, game.Player1)
		p2 := o.eligibleFor(m, members, t, game.Player2)
		if len(p1)+len(p2) == 0 {
			continue
		}
		m.Fight.Tier = t
		if len(p1) > 0 {
			m.Fight.TurnPlayer = game.Player1
		} else {
			m.Fight.TurnPlayer = game.Player2
		}
		o.awaitFighter(rc)
		return
	}
	o.completeEngagement(rc)
}

func (o *FightOrchestrator) awaitFighter(rc *resolveContext) {
	m := rc.m
	m.Fight.Stage = game.FightTierTurn
	rc.add("initiative %d: %s picks a fighter", m.Fight.Tier, m.PlayerName(m.Fight.TurnPlayer))
}

// completeEngagement retires the selected engagement and either reopens
// selection or, with nothing left to fight, ends the fight phase.
func (o *FightOrchestrator) completeEngagement(rc *resolveContext) {
	m := rc.m
	sel := m.Fight.Selected
	if sel >= 0 && sel < len(m.Fight.Engagements) {
		m.Fight.Engagements = append(m.Fight.Engagements[:sel], m.Fight.Engagements[sel+1:]...)
	}
	m.Fight.Selected = -1
	m.Fight.Tier = 0
	m.Fight.ClearActivation()
	if len(m.Fight.Engagements) > 0 {
		m.Fight.Stage = game.FightSelecting
		rc.add("the fight is done; %d engagement(s) remain", len(m.Fight.Engagements))
		return
	}
	rc.add("all fights are resolved")
	m.Fight.Reset()
	o.turns.advancePhase(rc)
}

func (o *FightOrchestrator) fightTurn(m *game.Match, player game.PlayerID) error {
	if player != m.Fight.TurnPlayer {
		return reject(ErrPhaseMismatch, "it is %s's turn to fight", m.PlayerName(m.Fight.TurnPlayer))
	}
	return nil
}

// isMember reports whether id belongs to the selected engagement.
func (o *FightOrchestrator) isMember(m *game.Match, id game.CombatantID) bool {
	if m.Fight.Selected < 0 || m.Fight.Selected >= len(m.Fight.Engagements) {
		return false
	}
	for _, mid := range m.Fight.Engagements[m.Fight.Selected] {
		if mid == id {
			return true
		}
	}
	return false
}

// liveMembers filters an engagement to p's living combatants.
func (o *FightOrchestrator) liveMembers(m *game.Match, members []game.CombatantID, p game.PlayerID) []game.CombatantID {
	var out []game.CombatantID
	for _, id := range members {
		if c := m.ByID(id); c != nil && c.Alive() && c.Owner == p {
			out = append(out, id)
		}
	}
	return out
}

// eligibleFor lists p's members who can still activate at the tier.
func (o *FightOrchestrator) eligibleFor(m *game.Match, members []game.CombatantID, tier int, p game.PlayerID) []game.CombatantID {
	var out []game.CombatantID
	for _, id := range members {
		c := m.ByID(id)
		if c == nil || !c.Alive() || c.Owner != p || c.HasFought {
			continue
		}
		if c.EffectiveInitiative() != tier {
			continue
		}
		out = append(out, id)
	}
	return out
}

// contactEnemies lists live enemy members of the fight touching f.
func (o *FightOrchestrator) contactEnemies(m *game.Match, f *game.Combatant) []*game.Combatant {
	var out []*game.Combatant
	if m.Fight.Selected < 0 {
		return out
	}
	for _, id := range m.Fight.Engagements[m.Fight.Selected] {
		c := m.ByID(id)
		if c == nil || !c.Alive() || c.Owner == f.Owner {
			continue
		}
		if geom.Overlaps(f.Volume(), c.Volume()) {
			out = append(out, c)
		}
	}
	return out
}

// touchesEnemyAt reports whether f, placed at dest, would contact a live
// enemy member of the fight.
func (o *FightOrchestrator) touchesEnemyAt(m *game.Match, f *game.Combatant, dest geom.Vec) bool {
	if m.Fight.Selected < 0 {
		return false
	}
	vol := f.VolumeAt(dest)
	for _, id := range m.Fight.Engagements[m.Fight.Selected] {
		c := m.ByID(id)
		if c == nil || !c.Alive() || c.Owner == f.Owner {
			continue
		}
		if geom.Overlaps(vol, c.Volume()) {
			return true
		}
	}
	return false
}

// outsiderAt returns a live combatant outside the fight whose volume the
// destination would collide with, or nil.
func (o *FightOrchestrator) outsiderAt(m *game.Match, f *game.Combatant, dest geom.Vec) *game.Combatant {
	vol := f.VolumeAt(dest)
	for _, c := range m.Combatants {
		if !c.Alive() || c.ID == f.ID || o.isMember(m, c.ID) {
			continue
		}
		if geom.Overlaps(vol, c.Volume()) {
			return c
		}
	}
	return nil
}

// engagementDone reports whether the selected engagement still has both
// sides alive.
func (o *FightOrchestrator) engagementDone(m *game.Match) bool {
	if m.Fight.Selected < 0 || m.Fight.Selected >= len(m.Fight.Engagements) {
		return true
	}
	members := m.Fight.Engagements[m.Fight.Selected]
	return len(o.liveMembers(m, members, game.Player1)) == 0 ||
		len(o.liveMembers(m, members, game.Player2)) == 0
}

// pruneDead drops destroyed combatants from every engagement.
func (o *FightOrchestrator) pruneDead(m *game.Match) {
	for i, members := range m.Fight.Engagements {
		kept := members[:0:0]
		for _, id := range members {
			if c := m.ByID(id); c != nil && c.Alive() {
				kept = append(kept, id)
			}
		}
		m.Fight.Engagements[i] = kept
	}
}

func mixedOwners(m *game.Match, members []game.CombatantID) bool {
	var seen [2]bool
	for _, id := range members {
		if c := m.ByID(id); c != nil && c.Owner.Valid() {
			seen[c.Owner-1] = true
		}
	}
	return seen[0] && seen[1]
}

func (o *FightOrchestrator) memberNames(m *game.Match, members []game.CombatantID) string {
	names := make([]string, 0, len(members))
	for _, id := range members {
		if c := m.ByID(id); c != nil {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}
