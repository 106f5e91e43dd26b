package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/models"
)

// ErrNoViewers is returned when a message reached no connected client.
var ErrNoViewers = errors.New("no connected viewers")

// Hub fans messages out to the SSE clients watching one celebration.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan models.SSEMessage]struct{}
	log     logrus.FieldLogger
}

// NewHub creates an empty hub
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{clients: make(map[chan models.SSEMessage]struct{}), log: log}
}

// AddClient registers a client channel and returns the client count
func (h *Hub) AddClient(client chan models.SSEMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) > 0 {
		h.log.Warnf("celebration opened %d additional SSE connection(s)", len(h.clients))
	}
	h.clients[client] = struct{}{}
	return len(h.clients)
}

// RemoveClient unregisters a client channel and returns the client count
func (h *Hub) RemoveClient(client chan models.SSEMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	h.log.Debugf("SSE client removed, now have %d clients", len(h.clients))
	return len(h.clients)
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all connected clients and returns how many
// received it
func (h *Hub) Broadcast(event, data string) int {
	h.mu.RLock()
	clients := maps.Clone(h.clients)
	h.mu.RUnlock()

	// Send messages WITHOUT holding the lock
	msg := models.SSEMessage{Event: event, Data: data}
	sent := 0
	for client := range clients {
		select {
		case client <- msg:
			sent++
		case <-time.After(SendTimeoutSeconds * time.Second):
			h.log.WithField("event", event).Debug("timeout sending to SSE client")
		}
	}
	h.log.WithField("event", event).Debugf("broadcast sent to %d/%d clients", sent, len(clients))
	return sent
}

// BroadcastJSON encodes v and broadcasts it
func (h *Hub) BroadcastJSON(event string, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	return h.Broadcast(event, string(data)), nil
}
