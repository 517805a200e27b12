package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is one kitchen happening pushed to connected boards.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	BatchID   uint                   `json:"batch_id,omitempty"`
	ProcessID uint                   `json:"process_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Event types emitted by the API layer.
const (
	EventBatchCreated   = "batch_created"
	EventProcessStarted = "process_started"
	EventProcessStopped = "process_stopped"
	EventBatchValidated = "batch_validated"
)

// Hub fans kitchen events out to every connected board. Slow clients are
// dropped rather than allowed to stall the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*connection]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*connection]bool)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount returns the number of connected boards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends an event to all connected boards.
func (h *Hub) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to marshal event %s: %v", evt.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Buffer full: the client stopped reading.
			delete(h.clients, c)
			close(c.send)
		}
	}
}
