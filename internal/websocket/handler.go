package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/dukerupert/habitgrid/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and runs it as a Hub
// client for the session's user.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}
		logger.Debug("websocket connected", "user_id", userID)

		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
	}
}
