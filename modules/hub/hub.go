package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"inspiration-poster-server/modules/poster"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the poster UI is served from a different origin in development
		return true
	},
}

// Client - one connected status watcher
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// StatusEvent - broadcast payload for one workflow transition. Generation
// status is process-wide (single active run), so every watcher receives
// every transition.
type StatusEvent struct {
	Type   string        `json:"type"`
	RunID  string        `json:"runId"`
	Status poster.Status `json:"status"`
}

// Hub - fan-out of generation status transitions to websocket watchers.
// Implements the workflow's StatusSink.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// HandleWS - GET /ws, upgrade and register a watcher
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Hub] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	log.Printf("👤 [Hub] Status watcher connected (watchers: %d)", count)

	go client.writePump()
	go h.readPump(client)
}

// OnStatus - poster.StatusSink implementation
func (h *Hub) OnStatus(runID string, status poster.Status) {
	event := StatusEvent{
		Type:   "generation_status",
		RunID:  runID,
		Status: status,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ [Hub] Failed to marshal status event: %v", err)
		return
	}
	h.broadcast(data)
}

// broadcast - deliver to every watcher; drop clients with a full buffer
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Watchers - number of connected status watchers
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump - watchers never send meaningful messages; reading only detects
// disconnects
func (h *Hub) readPump(client *Client) {
	defer func() {
		h.remove(client)
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  [Hub] WebSocket error: %v", err)
			}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		close(client.send)
		delete(h.clients, client)
		log.Printf("👋 [Hub] Status watcher disconnected (watchers: %d)", len(h.clients))
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("⚠️  [Hub] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
