package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"

	"eliteagenda/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to WebSocket
// and runs them as Hub clients.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin (LAN deployment)
		})
		if err != nil {
			hub.logger.Error("websocket accept", "error", err)
			return
		}

		var username string
		if ac, ok := auth.FromContext(r.Context()); ok {
			username = ac.Username
		}
		client := NewClient(hub, conn, username)
		client.Run(r.Context())
	}
}
