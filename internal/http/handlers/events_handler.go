package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"voltpoint/internal/http/middleware"
	"voltpoint/internal/ws"
)

// NewStationEventsHandler upgrades GET /api/stations/events to a WebSocket
// and subscribes the caller to their own station change feed.
func NewStationEventsHandler(hub *ws.Hub, logger *zap.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		socket, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("station feed upgrade failed", zap.Error(err))
			return
		}

		conn := ws.NewConnection(callerID, socket)
		hub.Add(conn)
		logger.Debug("station feed subscriber connected", zap.Int64("owner_id", callerID))

		// The feed is write-only; the read loop only notices disconnects.
		go func() {
			defer func() {
				hub.Remove(conn)
				_ = conn.Close()
			}()
			for {
				if _, _, err := socket.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
