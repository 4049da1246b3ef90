package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/logging"
	"github.com/kordenlund/warmarshal/internal/service"
)

type CreateMatchPayload struct {
	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
	ArmyOne   string `json:"army_one"`
	ArmyTwo   string `json:"army_two"`
}

// CreateMatch opens a new hot-seat match in setup state and returns its
// id and share code. The signed-in host (if any) is taken from the
// session; the two player names are free-form hot-seat identities.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req CreateMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	// Derive host identity from session when present.
	var hostEmail, hostName string
	if v, ok := c.Get("userEmail"); ok {
		hostEmail, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok {
		hostName, _ = v.(string)
	}

	p1 := strings.TrimSpace(req.PlayerOne)
	p2 := strings.TrimSpace(req.PlayerTwo)
	if p1 == "" || p2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if utf8.RuneCountInString(p1) > 32 || utf8.RuneCountInString(p2) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNameExceeds})
		return
	}
	if p1 == p2 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNamesEqual})
		return
	}

	a1 := strings.ToLower(strings.TrimSpace(req.ArmyOne))
	a2 := strings.ToLower(strings.TrimSpace(req.ArmyTwo))
	if _, ok := h.armies[a1]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownArmy})
		return
	}
	if _, ok := h.armies[a2]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownArmy})
		return
	}

	m := game.NewMatch(uuid.NewString(), generateMatchCode(), hostEmail, [2]string{p1, p2}, [2]string{a1, a2}, h.newRoller())
	m.Message = "Match created. Muster both armies to begin."
	h.store.Put(m)
	logging.Info("match created", logging.Fields{
		constants.LogFieldMatchID:   m.ID,
		constants.LogFieldMatchCode: m.Code,
	})

	// Upsert the host's user profile (name/email).
	if hostEmail != "" {
		_ = h.repo.UpsertUser(hostEmail, hostName)
	}

	c.JSON(http.StatusCreated, gin.H{
		"match_id":   m.ID,
		"match_code": m.Code,
	})
}

// GetMatch returns the full match snapshot for polling clients.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	m.Lock()
	view := buildMatchView(m)
	m.Unlock()
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMatch: view})
}

// StartMatch musters both army lists onto the table and opens round one.
func (h *MatchHandler) StartMatch(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	if err := service.StartMatch(h.repo, h.commands.Rules, h.armies, m, h.setup); err != nil {
		switch {
		case errors.Is(err, service.ErrMatchAlreadyStarted):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchAlreadyStarted})
		case errors.Is(err, service.ErrUnknownArmy):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownArmy})
		default:
			logging.Error("failed to muster match", err, logging.Fields{constants.LogFieldMatchCode: m.Code})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedMusterArmies})
		}
		return
	}
	h.broadcastMatch(m)

	m.Lock()
	view := buildMatchView(m)
	m.Unlock()
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMatch: view})
}

type EndMatchPayload struct {
	PlayerName string `json:"player_name"`
}

// EndMatch lets either named player resign; the opponent holds the field.
func (h *MatchHandler) EndMatch(c *gin.Context) {
	m, ok := h.findMatch(c)
	if !ok {
		return
	}
	var req EndMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.commands.EndMatch(m, strings.TrimSpace(req.PlayerName)); err != nil {
		switch {
		case errors.Is(err, service.ErrMatchFinished):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchFinished})
		case errors.Is(err, service.ErrNotAParticipant):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
		default:
			logging.Error("failed to end match", err, logging.Fields{constants.LogFieldMatchCode: m.Code})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndMatch})
		}
		return
	}
	h.broadcastMatch(m)
	logging.Info("match resigned", logging.Fields{
		constants.LogFieldMatchCode: m.Code,
		constants.LogFieldPlayer:    req.PlayerName,
	})
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Match ended"})
}
