package ui

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"inflationdash/domain/core"
	"inflationdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// SelectionEvent announces an accepted selection write
type SelectionEvent struct {
	SessionID  core.SessionID `json:"session_id"`
	Entity     string         `json:"entity"`
	Generation uint64         `json:"generation"`
	TimeRange  []string       `json:"time_range,omitempty"`
	Note       string         `json:"note"`
	Timestamp  time.Time      `json:"timestamp"`
}

// EventHub fans selection events out to Server-Sent Events subscribers
// of the same session
type EventHub struct {
	clients   map[core.SessionID]map[chan SelectionEvent]bool
	clientsMu sync.RWMutex
	keepAlive time.Duration
}

// NewEventHub creates an empty hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[core.SessionID]map[chan SelectionEvent]bool),
		keepAlive: 30 * time.Second,
	}
}

// Subscribe registers a listener for one session. The returned func
// unregisters it and closes the channel.
func (h *EventHub) Subscribe(id core.SessionID) (<-chan SelectionEvent, func()) {
	ch := make(chan SelectionEvent, 10)

	h.clientsMu.Lock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[chan SelectionEvent]bool)
	}
	h.clients[id][ch] = true
	log.Printf("[SSE] Client registered for session %s (total clients: %d)", id, len(h.clients[id]))
	h.clientsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.clientsMu.Lock()
			defer h.clientsMu.Unlock()
			clients := h.clients[id]
			delete(clients, ch)
			close(ch)
			if len(clients) == 0 {
				delete(h.clients, id)
			}
			log.Printf("[SSE] Client unregistered from session %s (remaining clients: %d)", id, len(clients))
		})
	}
}

// Broadcast delivers an event to every listener of its session.
// A full listener misses the event rather than stalling the writer.
func (h *EventHub) Broadcast(event SelectionEvent) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for ch := range h.clients[event.SessionID] {
		select {
		case ch <- event:
		default:
			log.Printf("[SSE] Client channel full for session %s, skipping event", event.SessionID)
		}
	}
}

// ClientCount returns the number of listeners for a session
func (h *EventHub) ClientCount(id core.SessionID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[id])
}

// HandleEvents streams selection events for the session in the path
func (h *EventHub) HandleEvents(c *gin.Context) {
	id := middleware.SessionID(c)
	events, unsubscribe := h.Subscribe(id)
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("selection", string(payload))
			return true

		case <-time.After(h.keepAlive):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
