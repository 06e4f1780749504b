package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Event is the message pushed to subscribers. The only event the server
// emits today is the board invalidation signal the page cache listens for.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client represents a connected WebSocket subscriber
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// ReadPump drains the connection so close and pong control frames are
// processed. Subscribers are listeners; any payload they send is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump pumps events from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events to the current WebSocket message
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub maintains the set of subscribers and fans out invalidation events
// after the store commits a mutation. Every subscriber receives every
// event. Subscribers are caches, not edit peers, so there is no sender
// to exclude.
type Hub struct {
	Clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

// Register adds a subscriber to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a subscriber from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Invalidate tells every subscriber that a board's cached page is stale.
func (h *Hub) Invalidate(boardID string) {
	h.Broadcast(Event{
		Type: "invalidate",
		Data: map[string]string{"boardId": boardID},
	})
}

// Broadcast sends an event to all subscribers
func (h *Hub) Broadcast(event Event) {
	jsonMessage, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling WebSocket event: %v", err)
		return
	}

	h.broadcast <- jsonMessage
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.Clients[client] = true
			log.Printf("Subscriber connected (%d total)", len(h.Clients))
		case client := <-h.unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Printf("Subscriber disconnected (%d total)", len(h.Clients))
			}
		case message := <-h.broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
					// Event sent successfully
				default:
					// Subscriber's send buffer is full, assume disconnected
					log.Printf("Subscriber send buffer full, removing client")
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
