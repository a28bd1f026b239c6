package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message represents a real-time sync notification broadcast to all clients.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     int64          `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, id int64, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client connected", "user", c.username, "clients", n)
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("client disconnected", "user", c.username, "clients", n)
	}
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// BroadcastNotification reports a notification lifecycle change together
// with the alarm state that resulted from it.
func (h *Hub) BroadcastNotification(action string, notification, alarmState any) {
	h.Broadcast(Message{
		Type:   "notification_" + action,
		Entity: "notification",
		Action: action,
		Extra: map[string]any{
			"notification": notification,
			"alarm_state":  alarmState,
		},
	})
}

// BroadcastAlarmPulse tells clients to play one alarm chirp.
func (h *Hub) BroadcastAlarmPulse(tone Tone) {
	h.Broadcast(Message{
		Type:   "alarm_pulse",
		Entity: "alarm",
		Action: "pulse",
		Extra:  map[string]any{"tone": tone},
	})
}

// BroadcastAlarmStopped tells clients the alarm went silent without a
// notification being dismissed.
func (h *Hub) BroadcastAlarmStopped(state any) {
	h.Broadcast(Message{
		Type:   "alarm_stopped",
		Entity: "alarm",
		Action: "stopped",
		Extra:  map[string]any{"alarm_state": state},
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
