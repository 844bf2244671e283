package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/stridelabs/stride/domain/event"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing notifications instead of
// blocking the bus.
const subscriberBuffer = 16

// Notification is one user-facing push message.
type Notification struct {
	Type  event.Type  `json:"type"`
	Event event.Event `json:"event"`
}

// Notifications fans achievement and XP events out to per-user
// subscribers, typically SSE connections.
type Notifications struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[string]chan Notification
}

// NewNotifications creates a Notifications service.
func NewNotifications(logger *slog.Logger) *Notifications {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifications{
		logger:      logger,
		subscribers: make(map[string]map[string]chan Notification),
	}
}

// Register subscribes the service to the notification-worthy event types.
func (s *Notifications) Register(bus *event.Bus) []event.UnsubscribeFunc {
	handler := func(_ context.Context, e event.Event) {
		s.deliver(e)
	}
	return []event.UnsubscribeFunc{
		bus.Subscribe(event.TypeAchievementUnlocked, handler),
		bus.Subscribe(event.TypeXPEarned, handler),
	}
}

// Subscribe opens a notification channel for one user. The cancel
// function closes the channel and releases the subscription.
func (s *Notifications) Subscribe(ownerID string) (<-chan Notification, func()) {
	id := uuid.NewString()
	ch := make(chan Notification, subscriberBuffer)

	s.mu.Lock()
	if s.subscribers[ownerID] == nil {
		s.subscribers[ownerID] = make(map[string]chan Notification)
	}
	s.subscribers[ownerID][id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[ownerID], id)
			if len(s.subscribers[ownerID]) == 0 {
				delete(s.subscribers, ownerID)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// deliver pushes an event to the owner's subscribers. Full channels drop
// the notification.
func (s *Notifications) deliver(e event.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers[e.Owner()] {
		select {
		case ch <- Notification{Type: e.EventType(), Event: e}:
		default:
			s.logger.Warn("dropping notification for slow subscriber",
				"owner_id", e.Owner(), "type", e.EventType())
		}
	}
}
