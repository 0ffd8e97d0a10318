package sse

import (
	"sync"
)

// Event names pushed over the live stream.
const (
	EventReportCreated = "report_created"
	EventReportUpdated = "report_updated"
	EventNotification  = "notification"
)

// Event is a live-update signal. It carries a short descriptive message and
// no payload diff; observers re-fetch their own scoped view after receiving it.
type Event struct {
	Name    string      `json:"event"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type subscriber struct {
	userID string
	ch     chan Event
}

// Hub fans events out to connected dashboard sessions. Broadcast events reach
// every subscriber regardless of user; Publish targets one user's sessions.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Subscribe registers a session for a user and returns the event channel and
// cleanup function. The channel receives both user-targeted and broadcast events.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		userID: userID,
		ch:     make(chan Event, 10),
	}
	h.subscribers[sub] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[sub]; ok {
			delete(h.subscribers, sub)
			close(sub.ch)
		}
	}

	return sub.ch, cleanup
}

// Broadcast sends an event to every connected session. Delivery is
// fire-and-forget: sessions with a full channel are skipped, never retried.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// Publish sends an event to all sessions of a specific user.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active sessions for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for sub := range h.subscribers {
		if sub.userID == userID {
			count++
		}
	}
	return count
}

// TotalSubscribers returns the total number of connected sessions.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
