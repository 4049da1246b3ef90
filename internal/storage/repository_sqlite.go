package storage

import (
	"time"

	"github.com/kordenlund/warmarshal/internal/game"
	"github.com/kordenlund/warmarshal/internal/keys"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// configByKey maps canonical profile key -> config definition (stats).
	configByKey map[string]game.UnitProfile
}

func NewSQLiteRepository(db *gorm.DB, configProfiles []game.UnitProfile) Repository {
	m := make(map[string]game.UnitProfile, len(configProfiles))
	for _, p := range configProfiles {
		m[keys.ProfileKey(p.Name)] = p
	}
	return &sqliteRepository{db: db, configByKey: m}
}

// applyConfig overrides a stored profile's stats from config when
// available (config is source of truth). Rows only pin keys and ids so
// balance changes take effect without a migration.
func (r *sqliteRepository) applyConfig(p *game.UnitProfile) {
	if r.configByKey == nil {
		return
	}
	conf, ok := r.configByKey[p.Key]
	if !ok {
		return
	}
	p.Name = conf.Name
	p.Faction = conf.Faction
	p.MovementRange = conf.MovementRange
	p.Initiative = conf.Initiative
	p.BallisticSkill = conf.BallisticSkill
	p.WeaponSkill = conf.WeaponSkill
	p.Strength = conf.Strength
	p.Toughness = conf.Toughness
	p.ArmourSave = conf.ArmourSave
	p.InvulnerableSave = conf.InvulnerableSave
	p.Wounds = conf.Wounds
	p.Attacks = conf.Attacks
	p.BaseRadius = conf.BaseRadius
	p.Height = conf.Height
	// Weapon loadouts are overridden in place when the config still has
	// the same slot count, so stored row ids stay stable.
	if len(conf.Weapons) == len(p.Weapons) {
		for i := range p.Weapons {
			w := conf.Weapons[i]
			p.Weapons[i].Name = w.Name
			p.Weapons[i].Range = w.Range
			p.Weapons[i].Shots = w.Shots
			p.Weapons[i].Strength = w.Strength
			p.Weapons[i].ArmourPiercing = w.ArmourPiercing
			p.Weapons[i].Damage = w.Damage
		}
	}
}

func (r *sqliteRepository) GetUnitProfiles() ([]game.UnitProfile, error) {
	var profiles []game.UnitProfile
	if err := r.db.Preload("Weapons").Order("faction, name").Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		r.applyConfig(&profiles[i])
	}
	return profiles, nil
}

func (r *sqliteRepository) GetUnitProfilesByKeys(profileKeys []string) ([]game.UnitProfile, error) {
	var profiles []game.UnitProfile
	canonical := make([]string, len(profileKeys))
	for i, k := range profileKeys {
		canonical[i] = keys.ProfileKey(k)
	}
	if err := r.db.Preload("Weapons").Where("key IN ?", canonical).Find(&profiles).Error; err != nil {
		return profiles, err
	}
	for i := range profiles {
		r.applyConfig(&profiles[i])
	}
	return profiles, nil
}

func (r *sqliteRepository) GetUnitProfileByKey(key string) (*game.UnitProfile, error) {
	var p game.UnitProfile
	if err := r.db.Preload("Weapons").Where("key = ?", keys.ProfileKey(key)).First(&p).Error; err != nil {
		return nil, err
	}
	r.applyConfig(&p)
	return &p, nil
}

func (r *sqliteRepository) SaveBattleRecord(rec *game.BattleRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetRecentBattles(limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []game.BattleRecord
	if err := r.db.Order("finished_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sqliteRepository) GetBattlesByHost(email string, limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []game.BattleRecord
	if err := r.db.Where("host_email = ?", email).Order("finished_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sqliteRepository) UpdateStatsOnMatchEnd(rec *game.BattleRecord, resignedName string) error {
	// Helper to upsert and add deltas
	upsert := func(name string, battles, wins, losses, resigns int) error {
		if name == "" {
			return nil
		}
		var ps game.PlayerStats
		if err := r.db.Where("player_name = ?", name).First(&ps).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				ps = game.PlayerStats{PlayerName: name}
			} else {
				return err
			}
		}
		ps.Battles += battles
		ps.Wins += wins
		ps.Losses += losses
		ps.Resignations += resigns
		return r.db.Save(&ps).Error
	}
	// everyone fought one battle
	if err := upsert(rec.PlayerOne, 1, 0, 0, 0); err != nil {
		return err
	}
	if err := upsert(rec.PlayerTwo, 1, 0, 0, 0); err != nil {
		return err
	}
	// winner and loser
	if rec.Winner != "" {
		loser := rec.PlayerOne
		if rec.Winner == rec.PlayerOne {
			loser = rec.PlayerTwo
		}
		if err := upsert(rec.Winner, 0, 1, 0, 0); err != nil {
			return err
		}
		if err := upsert(loser, 0, 0, 1, 0); err != nil {
			return err
		}
	}
	// resignation
	if resignedName != "" {
		return upsert(resignedName, 0, 0, 0, 1)
	}
	return nil
}

func (r *sqliteRepository) GetStatsByName(name string) (*game.PlayerStats, error) {
	var ps game.PlayerStats
	if err := r.db.Where("player_name = ?", name).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.PlayerStats{PlayerName: name}, nil
		}
		return nil, err
	}
	return &ps, nil
}

// GetTopPlayers returns top N players ordered by Wins desc, then Battles desc
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}
	var stats []game.PlayerStats
	if err := r.db.Model(&game.PlayerStats{}).
		Order("wins DESC").
		Order("battles DESC").
		Limit(limit).
		Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *sqliteRepository) UpsertUser(email, name string) error {
	u := game.User{Email: email, Name: name}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&u).Error
}

func (r *sqliteRepository) GetUserByEmail(email string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) CountHostedBattle(email string) error {
	if email == "" {
		return nil
	}
	return r.db.Model(&game.User{}).Where("email = ?", email).
		UpdateColumn("battles_hosted", gorm.Expr("battles_hosted + 1")).Error
}
