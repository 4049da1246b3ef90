package storage

import (
	"sync"

	"github.com/kordenlund/warmarshal/internal/game"
)

// MatchStore holds live matches in memory, keyed by join code. Match
// state is deliberately never persisted: the database only keeps the
// profile library, battle records and leaderboard rows, so a process
// restart forfeits running matches.
type MatchStore struct {
	mu     sync.RWMutex
	byCode map[string]*game.Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{byCode: make(map[string]*game.Match)}
}

// Put registers the match under its code, replacing any previous entry.
func (s *MatchStore) Put(m *game.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCode[m.Code] = m
}

func (s *MatchStore) Get(code string) (*game.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byCode[code]
	return m, ok
}

func (s *MatchStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byCode, code)
}

// Snapshot returns the current matches in no particular order. Callers
// lock each match before touching its state.
func (s *MatchStore) Snapshot() []*game.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*game.Match, 0, len(s.byCode))
	for _, m := range s.byCode {
		out = append(out, m)
	}
	return out
}

func (s *MatchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}
