package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/geom"
	"github.com/kordenlund/warmarshal/internal/service"
)

// rejectionStatus maps rule rejections onto HTTP statuses. Most are
// conflicts with the current match state; an out-of-range request is
// well formed but unsatisfiable.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotAParticipant):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrPhaseMismatch),
		errors.Is(err, engine.ErrIneligibleCombatant),
		errors.Is(err, engine.ErrInvalidTarget),
		errors.Is(err, engine.ErrNoSelection),
		errors.Is(err, service.ErrMatchNotInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondCommand finishes a rules command: rejections keep their message,
// success returns the narration and fans the new state out to every event
// stream watching the match.
func (h *MatchHandler) respondCommand(c *gin.Context, m *game.Match, events []string, err error) {
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	h.broadcastMatch(m)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyEvents: events})
}

type MoveCommandPayload struct {
	PlayerName  string  `json:"player_name"`
	CombatantID int     `json:"combatant_id"`
	X           float64 `json:"x"`
	Z           float64 `json:"z"`
}

// Move proposes a destination for one combatant. During the charge phase
// the same command doubles as the charge's contact move.
func (h *MatchHandler) Move(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req MoveCommandPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.ProposeMove(m, req.PlayerName, game.CombatantID(req.CombatantID), geom.Vec{X: req.X, Z: req.Z})
	h.respondCommand(c, m, events, err)
}

type ChargeTargetPayload struct {
	PlayerName string `json:"player_name"`
	AttackerID int    `json:"attacker_id"`
	TargetID   int    `json:"target_id"`
}

// ChargeTarget declares a charge; posted again while the charge waits for
// its contact move it walks the attacker straight in.
func (h *MatchHandler) ChargeTarget(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req ChargeTargetPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.SelectChargeTarget(m, req.PlayerName, game.CombatantID(req.AttackerID), game.CombatantID(req.TargetID))
	h.respondCommand(c, m, events, err)
}

type FighterPayload struct {
	PlayerName  string `json:"player_name"`
	CombatantID int    `json:"combatant_id"`
}

// SelectFight adds one of the player's engaged combatants to the fight
// selection.
func (h *MatchHandler) SelectFight(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req FighterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.SelectFight(m, req.PlayerName, game.CombatantID(req.CombatantID))
	h.respondCommand(c, m, events, err)
}

type PlayerOnlyPayload struct {
	PlayerName string `json:"player_name"`
}

// BeginFight commits the fight selection and opens the first initiative
// tier.
func (h *MatchHandler) BeginFight(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req PlayerOnlyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.BeginFight(m, req.PlayerName)
	h.respondCommand(c, m, events, err)
}

// SelectFighter activates one combatant from the current initiative tier.
func (h *MatchHandler) SelectFighter(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req FighterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.SelectFighter(m, req.PlayerName, game.CombatantID(req.CombatantID))
	h.respondCommand(c, m, events, err)
}

type PileInPayload struct {
	PlayerName string   `json:"player_name"`
	X          *float64 `json:"x"`
	Z          *float64 `json:"z"`
}

// PileIn moves the active fighter toward the fray. Omitting the
// destination holds position.
func (h *MatchHandler) PileIn(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req PileInPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	var dest *geom.Vec
	if req.X != nil && req.Z != nil {
		dest = &geom.Vec{X: *req.X, Z: *req.Z}
	}
	events, err := h.commands.PileIn(m, req.PlayerName, dest)
	h.respondCommand(c, m, events, err)
}

type WeaponPayload struct {
	PlayerName  string `json:"player_name"`
	CombatantID int    `json:"combatant_id"`
	WeaponIndex int    `json:"weapon_index"`
}

// SelectWeapon picks a weapon slot: ranged in the fire phases, melee for
// the active fighter.
func (h *MatchHandler) SelectWeapon(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req WeaponPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.SelectWeapon(m, req.PlayerName, game.CombatantID(req.CombatantID), req.WeaponIndex)
	h.respondCommand(c, m, events, err)
}

type AttackTargetPayload struct {
	PlayerName string `json:"player_name"`
	TargetID   int    `json:"target_id"`
}

// AttackTarget resolves the selected weapon against a target.
func (h *MatchHandler) AttackTarget(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req AttackTargetPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.SelectTarget(m, req.PlayerName, game.CombatantID(req.TargetID))
	h.respondCommand(c, m, events, err)
}

// AdvanceTurn passes the phase turn to the opponent, or on to the next
// phase when both players have passed.
func (h *MatchHandler) AdvanceTurn(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req PlayerOnlyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, err := h.commands.AdvanceTurn(m, req.PlayerName)
	h.respondCommand(c, m, events, err)
}

// Cancel aborts the player's selection in flight, if any.
func (h *MatchHandler) Cancel(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req PlayerOnlyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	events, canceled, err := h.commands.Cancel(m, req.PlayerName)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	if !canceled {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCommandNotApplicable})
		return
	}
	h.broadcastMatch(m)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyEvents: events})
}
