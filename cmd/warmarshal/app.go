package main

import (
	"go.uber.org/zap"

	"github.com/kordenlund/warmarshal/internal/battlelog"
	"github.com/kordenlund/warmarshal/internal/config"
	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/logging"
	"github.com/kordenlund/warmarshal/internal/roster"
	"github.com/kordenlund/warmarshal/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid warmarshal configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, cfg.Profiles)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db, cfg.Profiles)
}

func loadArmiesOrExit(dir string) map[string]*roster.ArmyList {
	armies, err := roster.LoadDir(dir)
	if err != nil {
		logging.Fatal("Failed to load army lists", err, logging.Fields{"armies_dir": dir})
	}
	if len(armies) == 0 {
		logging.Fatal("No army lists found", nil, logging.Fields{"armies_dir": dir})
	}
	for key := range armies {
		logging.Info("army list loaded", logging.Fields{constants.LogFieldArmy: key})
	}
	return armies
}

func openBattleLogOrExit(path string) *zap.Logger {
	logger, err := battlelog.New(path)
	if err != nil {
		logging.Fatal("Failed to open battle log", err, logging.Fields{constants.LogFieldPath: path})
	}
	return logger
}
