// Package engine is the rules-resolution core: the turn/phase machine, the
// movement, charge and combat resolvers and the fight orchestrator. The
// engine holds no match state of its own; everything lives on game.Match
// and every method either commits a legal action or returns a taxonomy
// rejection leaving the match untouched.
package engine

import (
	"go.uber.org/zap"
)

// DefaultConversionFactor scales tabletop distance stats (movement range,
// charge rolls) into world units when the config does not override it.
const DefaultConversionFactor = 10.0

// Config carries the tunable rules parameters.
type Config struct {
	// ConversionFactor scales tabletop distances into world units.
	// Zero or negative falls back to DefaultConversionFactor.
	ConversionFactor float64
	// PileInOnly disables the melee attack sub-resolution during fights:
	// activations reduce to the pile-in move and the engagement resolves
	// positionally. Off by default.
	PileInOnly bool
	// Trace receives per-roll resolution details. Nil disables tracing.
	Trace *zap.Logger
}

// Rules bundles the resolvers for one server. Resolvers are stateless
// between calls and safe to share across matches; all mutable state rides
// on the match, which serializes its own commands.
type Rules struct {
	Movement *MovementResolver
	Charge   *ChargeResolver
	Combat   *CombatResolver
	Fight    *FightOrchestrator
	Turns    *TurnMachine
}

// New wires the resolver graph from cfg.
func New(cfg Config) *Rules {
	k := cfg.ConversionFactor
	if k <= 0 {
		k = DefaultConversionFactor
	}
	trace := cfg.Trace
	if trace == nil {
		trace = zap.NewNop()
	}
	combat := &CombatResolver{trace: trace}
	fight := &FightOrchestrator{k: k, combat: combat, pileInOnly: cfg.PileInOnly, trace: trace}
	turns := &TurnMachine{k: k, fight: fight, trace: trace}
	fight.turns = turns
	return &Rules{
		Movement: &MovementResolver{k: k, trace: trace},
		Charge:   &ChargeResolver{k: k, trace: trace},
		Combat:   combat,
		Fight:    fight,
		Turns:    turns,
	}
}
