package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/dice"
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/roster"
	"github.com/kordenlund/warmarshal/internal/service"
	"github.com/kordenlund/warmarshal/internal/storage"
)

// MatchHandler groups all match-related HTTP handlers.
type MatchHandler struct {
	store    *storage.MatchStore
	repo     storage.Repository
	commands *service.Commands
	armies   map[string]*roster.ArmyList
	setup    service.MatchSetup
	hub      *Hub
	// newRoller builds the dice source for a fresh match; tests swap it
	// for a scripted one.
	newRoller func() dice.Roller
}

// NewMatchHandler wires the handler with its collaborators.
func NewMatchHandler(store *storage.MatchStore, repo storage.Repository, commands *service.Commands, armies map[string]*roster.ArmyList, setup service.MatchSetup, hub *Hub) *MatchHandler {
	return &MatchHandler{
		store:     store,
		repo:      repo,
		commands:  commands,
		armies:    armies,
		setup:     setup,
		hub:       hub,
		newRoller: dice.New,
	}
}

// findMatch resolves the route's match code to a live match, answering the
// request itself when the code is malformed or unknown.
func (h *MatchHandler) findMatch(c *gin.Context) (*game.Match, bool) {
	code := normalizeMatchCode(c.Param("matchCode"))
	if code == "" || !matchCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchCode})
		return nil, false
	}
	m, ok := h.store.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		return nil, false
	}
	return m, true
}

// broadcastMatch pushes the current snapshot to every event stream
// watching the match.
func (h *MatchHandler) broadcastMatch(m *game.Match) {
	m.Lock()
	view := buildMatchView(m)
	m.Unlock()
	h.hub.Broadcast(m.Code, gin.H{"type": "match_state", constants.JSONKeyMatch: view})
}
