package storage

import (
	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/keys"
	"github.com/kordenlund/warmarshal/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func OpenAndMigrate(dataSourceName string, profilesFromConfig []game.UnitProfile) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Keep the schema updated via AutoMigrate; the DB file can simply be
	// deleted when a clean slate is needed.
	err = db.AutoMigrate(&game.UnitProfile{}, &game.WeaponProfile{}, &game.BattleRecord{}, &game.PlayerStats{}, &game.User{})
	if err != nil {
		return nil, err
	}

	seedUnitProfiles(db, profilesFromConfig)
	return db, nil
}

// seedUnitProfiles inserts the configured profile library on first run.
// Stats are overridden from config on every read, so the rows mostly pin
// keys and weapon slots; an already-populated table is left alone.
func seedUnitProfiles(db *gorm.DB, profilesFromConfig []game.UnitProfile) {
	var count int64
	db.Model(&game.UnitProfile{}).Count(&count)
	if count > 0 || len(profilesFromConfig) == 0 {
		return
	}
	profiles := make([]game.UnitProfile, 0, len(profilesFromConfig))
	for _, p := range profilesFromConfig {
		p.Key = keys.ProfileKey(p.Name)
		profiles = append(profiles, p)
	}
	if err := db.Create(&profiles).Error; err != nil {
		logging.Error("failed to seed unit profile library", err, nil)
		return
	}
	logging.Info("unit profile library seeded", logging.Fields{"profiles": len(profiles)})
}
