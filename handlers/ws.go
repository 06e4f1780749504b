package handlers

import (
	"log"
	"net/http"

	"github.com/CrowderSoup/kanban-app/services"
	"github.com/gorilla/websocket"
)

// WebSocketHandler upgrades connections for subscribers of board
// invalidation events (page caches and open board views).
type WebSocketHandler struct {
	hub *services.Hub
}

func NewWebSocketHandler(hub *services.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Subscribe handles GET /api/ws
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &services.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
}
