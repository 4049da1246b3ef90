package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kordenlund/warmarshal/internal/constants"
	"github.com/kordenlund/warmarshal/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventConn is one websocket subscription to a match's event stream. The
// stream is read-only for clients; commands go through the HTTP routes.
type EventConn struct {
	ws        *websocket.Conn
	matchCode string
	// writeMu serializes writes: broadcasts and control frames may race.
	writeMu sync.Mutex
}

func (c *EventConn) write(messageType int, data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.WriteMessage(messageType, data)
}

// StreamEvents upgrades the request and subscribes it to the match's
// snapshots. The current snapshot is sent immediately so late joiners
// render without waiting for the next command.
func (h *MatchHandler) StreamEvents(c *gin.Context) {
	code := normalizeMatchCode(c.Param("matchCode"))
	if code == "" || !matchCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchCode})
		return
	}
	m, ok := h.store.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("failed to open event stream", err, logging.Fields{constants.LogFieldMatchCode: code})
		return
	}
	conn := &EventConn{ws: ws, matchCode: code}
	h.hub.register(conn)
	logging.Info("event stream opened", logging.Fields{constants.LogFieldMatchCode: code, "watchers": h.hub.Watchers(code)})

	h.broadcastMatch(m)
	go conn.readLoop(h.hub)
}

// readLoop drains inbound frames until the peer goes away, then cleans
// up. Clients send nothing meaningful; the loop exists to detect closes.
func (c *EventConn) readLoop(hub *Hub) {
	defer func() {
		hub.unregister(c)
		c.ws.Close()
	}()
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
