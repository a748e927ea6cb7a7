package services

import (
	"sync"

	"github.com/jobkit/jobkit/internal/models"
)

// NotificationEvent is a real-time update delivered over a user's SSE stream.
type NotificationEvent struct {
	Type         string               `json:"type"` // notification, unread_count
	Notification *models.Notification `json:"notification,omitempty"`
	UnreadCount  *int64               `json:"unread_count,omitempty"`
}

// Pusher delivers events to a user's live connections. Implementations must
// never block; delivery is best-effort.
type Pusher interface {
	PushToUser(userID uint, event NotificationEvent)
}

// sseClient is one open stream belonging to a user.
type sseClient struct {
	userID uint
	ch     chan NotificationEvent
}

// SSEHub manages SSE client connections addressed by user id.
type SSEHub struct {
	clients map[string]*sseClient
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE hub instance.
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]*sseClient),
	}
}

// Subscribe registers a client stream for a user and returns its event channel.
func (h *SSEHub) Subscribe(clientID string, userID uint) <-chan NotificationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Buffered channel so a slow consumer cannot block a push
	ch := make(chan NotificationEvent, 100)
	h.clients[clientID] = &sseClient{userID: userID, ch: ch}
	return ch
}

// Unsubscribe removes a client from the hub.
func (h *SSEHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.ch)
		delete(h.clients, clientID)
	}
}

// PushToUser sends an event to every open stream of one user. Events for slow
// clients are dropped rather than blocking the caller.
func (h *SSEHub) PushToUser(userID uint, event NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.ch <- event:
		default:
			// Client is slow, skip this event
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *SSEHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
