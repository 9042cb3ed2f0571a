package events

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Event types published by the application workflow
const (
	ApplicationSubmitted     = "application.submitted"
	ApplicationStatusChanged = "application.status_changed"
)

// Event is a domain event scoped to the company that owns the application
type Event struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	CompanyID     string    `json:"company_id"`
	ApplicationID string    `json:"application_id"`
	JobID         string    `json:"job_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
}

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NewEvent fills in the id and timestamp of an event
func NewEvent(eventType string, at time.Time) Event {
	return Event{
		EventID:   uuid.Must(uuid.NewV4()).String(),
		EventType: eventType,
		Timestamp: at,
	}
}

// Bus fans events out to per-company subscribers. Delivery never blocks
// the publisher; events for a full subscriber are dropped.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]chan Event
	nextID uint64
	logger *zap.Logger
}

// NewBus creates an in-process event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string]map[uint64]chan Event),
		logger: logger,
	}
}

// Publish delivers event to every subscriber of its company
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs[event.CompanyID] {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping event for slow subscriber",
				zap.String("event_type", event.EventType),
				zap.String("company_id", event.CompanyID),
				zap.Uint64("subscriber_id", id),
			)
		}
	}
}

// Subscribe registers a subscriber for a company. The returned cancel
// function unregisters it and closes the channel.
func (b *Bus) Subscribe(companyID string, buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[companyID] == nil {
		b.subs[companyID] = make(map[uint64]chan Event)
	}
	b.subs[companyID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[companyID], id)
			if len(b.subs[companyID]) == 0 {
				delete(b.subs, companyID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Subscribers returns the number of open subscriptions for a company
func (b *Bus) Subscribers(companyID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[companyID])
}
