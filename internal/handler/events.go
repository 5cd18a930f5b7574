package handler

import (
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/logger"
	hub "agrorelay/internal/service/websocket"

	"github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler handles operator UI connections on /api/events and
// subscribes them to state changes of the requested device.
func EventsHandler(hubService *hub.HubService, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceIDFromQuery(r, cfg)

		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		ctx := r.Context()
		hubService.Register(ctx, connection, deviceID)
		defer hubService.Unregister(ctx, connection)

		logger.Info("Viewer connected for %s", deviceID)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer for %s disconnected normally", deviceID)
				} else {
					logger.Warning("Viewer for %s disconnected: %v", deviceID, err)
				}
				return
			}
		}
	}
}
