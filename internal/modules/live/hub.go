package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"velopark/internal/domain"
)

// SpaceStatusEvent is the wire payload pushed to dashboard subscribers.
type SpaceStatusEvent struct {
	RackID    int64              `json:"rack_id"`
	SpaceID   int64              `json:"space_id"`
	SpaceCode string             `json:"space_code"`
	Status    domain.SpaceStatus `json:"status"`
	At        time.Time          `json:"at"`
}

// Hub fans space status changes out to websocket subscribers keyed by rack.
type Hub struct {
	subscribers map[int64]map[*websocket.Conn]bool
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Subscribe(rackID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[rackID] == nil {
		h.subscribers[rackID] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[rackID][conn] = true
}

func (h *Hub) Unsubscribe(rackID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.subscribers[rackID]; exists {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.subscribers, rackID)
		}
	}
}

// PublishSpaceStatus pushes one event to every subscriber of the rack.
// Dead connections are dropped on write failure.
func (h *Hub) PublishSpaceStatus(rackID, spaceID int64, spaceCode string, status domain.SpaceStatus, at time.Time) {
	event := SpaceStatusEvent{
		RackID:    rackID,
		SpaceID:   spaceID,
		SpaceCode: spaceCode,
		Status:    status,
		At:        at,
	}

	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers[rackID]))
	for conn := range h.subscribers[rackID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.Unsubscribe(rackID, conn)
		}
	}
}

func (h *Hub) SubscriberCount(rackID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers[rackID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for rackID, conns := range h.subscribers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subscribers, rackID)
	}
}
