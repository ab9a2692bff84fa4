// Package gateway streams draft events to websocket clients. Each client
// subscribes to one league; the NATS consumer fans events out to every
// connection watching that league.
package gateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub tracks websocket connections per league.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

// Register adds a connection to a league's watcher set.
func (h *Hub) Register(leagueID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[leagueID] == nil {
		h.conns[leagueID] = make(map[*websocket.Conn]bool)
	}
	h.conns[leagueID][conn] = true
}

// Unregister removes a connection. Safe to call twice.
func (h *Hub) Unregister(leagueID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set := h.conns[leagueID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, leagueID)
		}
	}
}

// Broadcast sends a message to every connection watching the league.
// Failed connections are dropped from the set.
func (h *Hub) Broadcast(leagueID uuid.UUID, message []byte) {
	h.mu.RLock()
	set := h.conns[leagueID]
	targets := make([]*websocket.Conn, 0, len(set))
	for conn := range set {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debug().Err(err).Str("league_id", leagueID.String()).Msg("dropping dead websocket")
			h.Unregister(leagueID, conn)
			conn.Close()
		}
	}
}

// WatcherCount returns the number of connections watching a league.
func (h *Hub) WatcherCount(leagueID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[leagueID])
}
