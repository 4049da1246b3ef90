package storage

import (
	"github.com/kordenlund/warmarshal/internal/game"
)

type Repository interface {
	GetUnitProfiles() ([]game.UnitProfile, error)
	GetUnitProfilesByKeys(keys []string) ([]game.UnitProfile, error)
	// GetUnitProfileByKey returns a profile by its key (case-insensitive).
	GetUnitProfileByKey(key string) (*game.UnitProfile, error)

	// SaveBattleRecord stores the result row of a finished match. Live
	// match state never reaches the database.
	SaveBattleRecord(rec *game.BattleRecord) error
	GetRecentBattles(limit int) ([]game.BattleRecord, error)
	GetBattlesByHost(email string, limit int) ([]game.BattleRecord, error)

	// UpdateStatsOnMatchEnd folds a finished battle into both players'
	// aggregate rows. resignedName is empty unless the match ended by
	// resignation, in which case it names the player who conceded.
	UpdateStatsOnMatchEnd(rec *game.BattleRecord, resignedName string) error
	GetStatsByName(name string) (*game.PlayerStats, error)
	// Leaderboard
	GetTopPlayers(limit int) ([]game.PlayerStats, error)

	UpsertUser(email, name string) error
	GetUserByEmail(email string) (*game.User, error)
	// CountHostedBattle bumps the hosted-battle counter for a signed-in
	// host when one of their matches finishes.
	CountHostedBattle(email string) error
}
