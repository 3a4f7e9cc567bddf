package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dom/plantally/internal/service"
	"github.com/dom/plantally/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub          *websocket.Hub
	sessions     *service.SessionService
	tickInterval time.Duration
}

func NewWebSocketHandler(hub *websocket.Hub, sessions *service.SessionService, tickInterval time.Duration) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		sessions:     sessions,
		tickInterval: tickInterval,
	}
}

// Handle upgrades to the trial timer feed for the session named by the
// token query parameter.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token required")
		return
	}

	claims, err := h.sessions.ValidateToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}
	sessionID := claims.SessionID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	tick := func(ctx context.Context) (int, error) {
		return h.sessions.Tick(ctx, sessionID)
	}
	client := websocket.NewClient(h.hub, conn, sessionID, tick, h.tickInterval)
	client.Start()
}
