package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/dedupe"
)

// readLimit parses an optional ?limit=N query, clamped to sane bounds.
func readLimit(c *gin.Context, def int) int {
	limit := def
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

// ListProfiles returns the full unit profile library. Concurrent requests
// collapse into a single database query.
func (h *MatchHandler) ListProfiles(c *gin.Context) {
	out, err, _ := dedupe.ProfileGroup.Do("profiles", func() (interface{}, error) {
		profiles, err := h.repo.GetUnitProfiles()
		if err != nil {
			return nil, err
		}
		return MarshalIntoSnakeTimestamps(profiles)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfiles})
		return
	}
	c.JSON(http.StatusOK, out)
}

type armyUnitView struct {
	Profile string `json:"profile"`
	Name    string `json:"name,omitempty"`
	Count   int    `json:"count"`
}

type armyView struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Units []armyUnitView `json:"units"`
}

// ListArmies returns every army list loaded from the armies directory,
// sorted by key.
func (h *MatchHandler) ListArmies(c *gin.Context) {
	out := make([]armyView, 0, len(h.armies))
	for key, list := range h.armies {
		av := armyView{Key: key, Name: list.Name, Units: make([]armyUnitView, 0, len(list.Units))}
		for _, u := range list.Units {
			av.Units = append(av.Units, armyUnitView{Profile: u.Profile, Name: u.Name, Count: u.Count})
		}
		out = append(out, av)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top players by wins (desc), top 10 by
// default.
func (h *MatchHandler) ListLeaderboard(c *gin.Context) {
	limit := readLimit(c, 10)
	out, err, _ := dedupe.LeaderboardGroup.Do(fmt.Sprintf("top:%d", limit), func() (interface{}, error) {
		players, err := h.repo.GetTopPlayers(limit)
		if err != nil {
			return nil, err
		}
		return MarshalIntoSnakeTimestamps(players)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListBattles returns the most recently finished battles.
func (h *MatchHandler) ListBattles(c *gin.Context) {
	limit := readLimit(c, 20)
	out, err, _ := dedupe.LeaderboardGroup.Do(fmt.Sprintf("recent:%d", limit), func() (interface{}, error) {
		battles, err := h.repo.GetRecentBattles(limit)
		if err != nil {
			return nil, err
		}
		return MarshalIntoSnakeTimestamps(battles)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattles})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListHostedBattles returns battles hosted by the signed-in user.
func (h *MatchHandler) ListHostedBattles(c *gin.Context) {
	email := ""
	if v, ok := c.Get("userEmail"); ok {
		email, _ = v.(string)
	}
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	battles, err := h.repo.GetBattlesByHost(email, readLimit(c, 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattles})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(battles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattles})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetPlayerStats returns aggregated results for one table-player display
// name. Unknown names answer with zeroed stats.
func (h *MatchHandler) GetPlayerStats(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		if v, ok := c.Get("userName"); ok {
			name, _ = v.(string)
		}
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNameRequired})
		return
	}
	ps, err := h.repo.GetStatsByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(ps)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, out)
}
