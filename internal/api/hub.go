package api

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans match snapshots out to every event stream subscribed to a
// match code. One hub serves the whole process; it is handed to the
// handlers rather than reached for globally.
type Hub struct {
	mu    sync.RWMutex
	conns map[*EventConn]bool
	// matchCode -> list of connections watching that match
	matchConns map[string][]*EventConn
}

func NewHub() *Hub {
	return &Hub{
		conns:      make(map[*EventConn]bool),
		matchConns: make(map[string][]*EventConn),
	}
}

func (h *Hub) register(c *EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
	h.matchConns[c.matchCode] = append(h.matchConns[c.matchCode], c)
}

func (h *Hub) unregister(c *EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	watchers := h.matchConns[c.matchCode]
	for i, conn := range watchers {
		if conn == c {
			h.matchConns[c.matchCode] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(h.matchConns[c.matchCode]) == 0 {
		delete(h.matchConns, c.matchCode)
	}
}

// Broadcast sends msg to every watcher of matchCode. Write failures are
// left for the connection's own read loop to notice and clean up.
func (h *Hub) Broadcast(matchCode string, msg interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, c := range h.matchConns[matchCode] {
		c.write(websocket.TextMessage, data)
	}
}

// Watchers reports how many streams follow a match.
func (h *Hub) Watchers(matchCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matchConns[matchCode])
}
