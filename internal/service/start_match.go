package service

import (
	"errors"
	"fmt"

	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/keys"
	"github.com/kordenlund/warmarshal/internal/roster"
)

// ProfileRepo is the minimal repository interface required by StartMatch.
// Using a small interface simplifies testing.
type ProfileRepo interface {
	GetUnitProfilesByKeys(profileKeys []string) ([]game.UnitProfile, error)
}

var (
	ErrMatchAlreadyStarted = errors.New("match already started")
	ErrUnknownArmy         = errors.New("unknown army list")
)

// MatchSetup carries the table dimensions both armies deploy onto.
type MatchSetup struct {
	TableWidth float64
	TableDepth float64
}

// StartMatch musters both army lists onto the table and opens the battle.
// The caller holds no lock; the match is locked here for the whole
// muster-and-begin sequence.
func StartMatch(repo ProfileRepo, rules *engine.Rules, armies map[string]*roster.ArmyList, m *game.Match, setup MatchSetup) error {
	m.Lock()
	defer m.Unlock()
	if m.Status != game.StatusSetup {
		return ErrMatchAlreadyStarted
	}

	lists := make([]*roster.ArmyList, 2)
	profileKeys := make([]string, 0, 8)
	seen := make(map[string]struct{})
	for i, key := range m.ArmyKeys {
		l, ok := armies[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownArmy, key)
		}
		lists[i] = l
		for _, k := range l.ProfileKeys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			profileKeys = append(profileKeys, k)
		}
	}

	fetched, err := repo.GetUnitProfilesByKeys(profileKeys)
	if err != nil {
		return err
	}
	profiles := make(map[string]game.UnitProfile, len(fetched))
	for _, p := range fetched {
		k := p.Key
		if k == "" {
			k = keys.ProfileKey(p.Name)
		}
		profiles[k] = p
	}

	if err := lists[0].Muster(m, game.Player1, profiles, setup.TableWidth, setup.TableDepth); err != nil {
		return err
	}
	if err := lists[1].Muster(m, game.Player2, profiles, setup.TableWidth, setup.TableDepth); err != nil {
		return err
	}

	rules.Turns.Begin(m)
	return nil
}
