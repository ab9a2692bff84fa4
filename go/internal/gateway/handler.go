package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface is already wide open to any origin; the live feed
	// follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades GET /leagues/{id}/live to a websocket and registers the
// connection with the hub. The read loop only watches for close; all
// traffic flows server to client.
func Handler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid league id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		h.Register(leagueID, conn)
		log.Info().Str("league_id", leagueID.String()).Msg("live watcher connected")

		go func() {
			defer func() {
				h.Unregister(leagueID, conn)
				conn.Close()
				log.Info().Str("league_id", leagueID.String()).Msg("live watcher disconnected")
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
