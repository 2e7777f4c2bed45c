// Package ws pushes station change events to the owning user's connected
// dashboard sessions.
package ws

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"voltpoint/internal/models"
)

// Event is the wire format of one change notification.
type Event struct {
	Type    string         `json:"type"`
	Station models.Station `json:"station"`
}

// Hub tracks subscriber connections per owner and fans events out to them.
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[int64]map[*Connection]struct{}
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewHub builds the hub.
func NewHub(pingInterval time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		subscribers:  make(map[int64]map[*Connection]struct{}),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Add registers a new subscriber connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[conn.OwnerID()]
	if !ok {
		set = make(map[*Connection]struct{})
		h.subscribers[conn.OwnerID()] = set
	}
	set[conn] = struct{}{}
}

// Remove drops a subscriber connection.
func (h *Hub) Remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[conn.OwnerID()]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.subscribers, conn.OwnerID())
	}
}

// Publish sends one event to every connection owned by ownerID. Failed
// connections are dropped.
func (h *Hub) Publish(ownerID int64, eventType string, station models.Station) {
	event := Event{Type: eventType, Station: station}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.subscribers[ownerID]))
	for conn := range h.subscribers[ownerID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(event); err != nil {
			h.logger.Warn("dropping station feed subscriber",
				zap.Int64("owner_id", ownerID),
				zap.Error(err),
			)
			h.Remove(conn)
			_ = conn.Close()
		}
	}
}

// Run pings all subscribers until the context is cancelled, then closes them.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.pingAll()
		}
	}
}

func (h *Hub) pingAll() {
	h.mu.RLock()
	var conns []*Connection
	for _, set := range h.subscribers {
		for conn := range set {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.Ping(); err != nil {
			h.Remove(conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subscribers {
		for conn := range set {
			_ = conn.Close()
		}
	}
	h.subscribers = make(map[int64]map[*Connection]struct{})
}
