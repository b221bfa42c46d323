package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Topic published to every connected subscriber on dispatch.
const BroadcastTopic = "global_alert"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub is the push channel: a websocket fan-out that publishes alert events to
// all currently connected subscribers. Delivery is fire-and-forget; zero
// subscribers is not an error.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]*wsClient
}

// NewHub creates an empty broadcast hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[uuid.UUID]*wsClient),
	}
}

func (h *Hub) Name() string { return "broadcast" }

// Notify publishes the event on the global alert topic.
func (h *Hub) Notify(_ context.Context, event Event) error {
	payload, err := json.Marshal(broadcastMessage{Topic: BroadcastTopic, Event: event})
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// A subscriber that cannot keep up loses this event rather
			// than stalling the broadcast.
			h.logger.Warn("broadcast subscriber lagging, dropping event",
				"client", client.id,
				"object_id", event.ObjectID,
			)
		}
	}
	return nil
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and registers it as a subscriber until
// the peer disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info("alert subscriber connected", "client", client.id)

	go h.readPump(client)
	go h.writePump(client)
}

func (h *Hub) readPump(client *wsClient) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, client.id)
		h.mu.Unlock()
		close(client.done)
		client.conn.Close()
		h.logger.Info("alert subscriber disconnected", "client", client.id)
	}()

	// Subscribers only listen; the read loop exists to detect the close.
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *wsClient) {
	for {
		select {
		case message := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-client.done:
			return
		}
	}
}

type broadcastMessage struct {
	Topic string `json:"topic"`
	Event Event  `json:"event"`
}
