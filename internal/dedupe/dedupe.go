package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent read-side queries. Using a centralized singleflight.Group
// ensures that only one database query runs for a given key while other
// callers wait for the result.

import "golang.org/x/sync/singleflight"

// ProfileGroup deduplicates unit-profile library loads. The library is
// requested by every client opening the muster screen, always under the
// same key ("profiles").
var ProfileGroup singleflight.Group

// LeaderboardGroup deduplicates leaderboard and recent-battle queries,
// keyed by query kind and limit (e.g. "top:10", "recent:20").
var LeaderboardGroup singleflight.Group
