package main

import (
	"time"

	"github.com/kordenlund/warmarshal/internal/logging"
	"github.com/kordenlund/warmarshal/internal/service"
	"github.com/kordenlund/warmarshal/internal/storage"
)

// startIdleReaper sweeps out matches nobody has commanded within ttl. An
// in-progress match that times out is recorded as abandoned; setup-stage
// lobbies are dropped silently.
func startIdleReaper(commands *service.Commands, store *storage.MatchStore, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := commands.ReapIdleMatches(store, ttl); n > 0 {
				logging.Info("idle reaper pass", logging.Fields{"removed": n})
			}
		}
	}()
}
