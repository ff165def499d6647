// Package realtime pushes advisory task events to connected websocket clients.
// Clients still poll the REST API for state; the events only hint that a
// refresh is worthwhile.
package realtime

import (
	"encoding/json"
	"sync"
)

// Event describes a task mutation worth pushing.
type Event struct {
	Type    string `json:"type"`
	TaskID  string `json:"taskId"`
	ActorID string `json:"actorId"`
}

// Client represents a single websocket client connection. The network conn is
// managed by the ws handler; the hub only fans out.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active user connections and delivers events to them.
type Hub struct {
	mu       sync.RWMutex
	byUserID map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{byUserID: make(map[string]map[Client]struct{})}
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byUserID[userID]; !ok {
		h.byUserID[userID] = make(map[Client]struct{})
	}
	h.byUserID[userID][client] = struct{}{}
}

// Unregister removes a client; if the user has no more clients, cleans up.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.byUserID[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.byUserID, userID)
		}
	}
}

// Publish sends the event to every connection of every listed user. Duplicate
// user IDs are delivered once. Send failures are left for the ws handler's
// reader loop to clean up.
func (h *Hub) Publish(userIDs []string, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		for c := range h.byUserID[userID] {
			c.Send(payload)
		}
	}
}
