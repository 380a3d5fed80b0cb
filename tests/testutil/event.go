package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopcraft/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that captures everything it
// receives. Safe for concurrent use.
type EventRecorder struct {
	mu         sync.Mutex
	eventTypes []string
	events     []shared.DomainEvent
	err        error
}

// NewEventRecorder subscribes the recorder to the given event types.
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler.
func (r *EventRecorder) EventTypes() []string {
	return r.eventTypes
}

// Handle records the event and returns the configured error, if any.
func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns the number of recorded events.
func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// FailWith makes subsequent Handle calls return err.
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Reset drops recorded events and clears any configured error.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.err = nil
}

// StubEvent is a minimal domain event for exercising the bus and
// outbox plumbing.
type StubEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewStubEvent builds a stub event against an Order aggregate.
func NewStubEvent(eventType string) *StubEvent {
	return NewStubEventWithID(uuid.New(), eventType)
}

// NewStubEventWithID builds a stub event with a fixed event ID, for
// idempotency scenarios.
func NewStubEventWithID(eventID uuid.UUID, eventType string) *StubEvent {
	return &StubEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        eventID,
			Type:      eventType,
			Timestamp: time.Now(),
			AggID:     uuid.New(),
			AggType:   "Order",
		},
		Data: "stub-data",
	}
}

// WaitForEvents waits until the recorder has captured at least n
// events, reporting whether it did before the timeout.
func WaitForEvents(t *testing.T, recorder *EventRecorder, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(func() bool {
		return recorder.Count() >= n
	}, timeout, 10*time.Millisecond)
}
