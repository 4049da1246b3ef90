package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kordenlund/warmarshal/internal/api"
	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/engine"
	"github.com/kordenlund/warmarshal/internal/logging"
	"github.com/kordenlund/warmarshal/internal/service"
	"github.com/kordenlund/warmarshal/internal/storage"
	"github.com/kordenlund/warmarshal/internal/version"
)

func main() {
	// Load .env when present; deployed environments set variables directly.
	_ = godotenv.Load()

	warnMissingAuthEnv()

	// Path may be provided via WARMARSHAL_CONFIG or defaults to
	// ./warmarshal_config.json in the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./warmarshal_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via WARMARSHAL_DB. Default to a
	// `data/` directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/warmarshal.db"
	}
	repo := createRepositoryOrExit(dbPath, cfg)
	armies := loadArmiesOrExit(cfg.ArmiesDir)
	trace := openBattleLogOrExit(cfg.BattleLogPath)
	defer trace.Sync()

	rules := engine.New(engine.Config{
		ConversionFactor: cfg.ConversionFactor,
		PileInOnly:       cfg.PileInOnly,
		Trace:            trace,
	})
	store := storage.NewMatchStore()
	commands := &service.Commands{Rules: rules, Repo: repo}
	hub := api.NewHub()
	setup := service.MatchSetup{TableWidth: cfg.TableWidth, TableDepth: cfg.TableDepth}
	handler := api.NewMatchHandler(store, repo, commands, armies, setup, hub)
	authHandler := api.NewAuthHandler(repo)

	startIdleReaper(commands, store, time.Duration(cfg.IdleTimeoutMinutes)*time.Minute)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteProfiles, handler.ListProfiles)
		apiRoutes.GET(constants.RouteArmies, handler.ListArmies)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteBattles, handler.ListBattles)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		// Match lifecycle and commands. The two table players are plain
		// display names, so a session is optional here: it only identifies
		// the host.
		open := apiRoutes.Group("")
		open.Use(api.SessionOptional())
		open.POST(constants.RouteMatches, handler.CreateMatch)
		open.GET(constants.RouteMatchByCode, handler.GetMatch)
		open.GET(constants.RouteMatchEvents, handler.StreamEvents)
		open.POST(constants.RouteMatchStart, handler.StartMatch)
		open.POST(constants.RouteMatchEnd, handler.EndMatch)
		open.POST(constants.RouteMatchMove, handler.Move)
		open.POST(constants.RouteMatchChargeTarget, handler.ChargeTarget)
		open.POST(constants.RouteMatchSelectFight, handler.SelectFight)
		open.POST(constants.RouteMatchBeginFight, handler.BeginFight)
		open.POST(constants.RouteMatchFighter, handler.SelectFighter)
		open.POST(constants.RouteMatchPileIn, handler.PileIn)
		open.POST(constants.RouteMatchWeapon, handler.SelectWeapon)
		open.POST(constants.RouteMatchAttackTarget, handler.AttackTarget)
		open.POST(constants.RouteMatchAdvanceTurn, handler.AdvanceTurn)
		open.POST(constants.RouteMatchCancel, handler.Cancel)
		open.GET(constants.RoutePlayerStats, handler.GetPlayerStats)

		// Authenticated host endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())
		protected.GET(constants.RouteBattlesMine, handler.ListHostedBattles)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)
	router.POST(constants.RouteAuthLogout, authHandler.Logout)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, "version": version.Short()})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

// warnMissingAuthEnv flags absent auth configuration without refusing to
// start: hot-seat play needs no sign-in, only hosting stats do.
func warnMissingAuthEnv() {
	for _, v := range []string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret} {
		if os.Getenv(v) == "" {
			logging.Warn("Auth environment variable not set; host sign-in disabled until provided", logging.Fields{"var": v})
		}
	}
}
