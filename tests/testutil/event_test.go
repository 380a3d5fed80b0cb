package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecorder(t *testing.T) {
	rec := NewEventRecorder("order.submitted", "order.status_changed")
	assert.Equal(t, []string{"order.submitted", "order.status_changed"}, rec.EventTypes())
	assert.Zero(t, rec.Count())

	event := NewStubEvent("order.submitted")
	require.NoError(t, rec.Handle(context.Background(), event))

	assert.Equal(t, 1, rec.Count())
	assert.Equal(t, event, rec.Events()[0])
}

func TestEventRecorder_FailWith(t *testing.T) {
	rec := NewEventRecorder("order.submitted")
	rec.FailWith(assert.AnError)

	err := rec.Handle(context.Background(), NewStubEvent("order.submitted"))
	assert.Equal(t, assert.AnError, err)

	// The failing event is still recorded.
	assert.Equal(t, 1, rec.Count())
}

func TestEventRecorder_Reset(t *testing.T) {
	rec := NewEventRecorder("order.submitted")
	rec.FailWith(assert.AnError)
	_ = rec.Handle(context.Background(), NewStubEvent("order.submitted"))

	rec.Reset()

	assert.Zero(t, rec.Count())
	assert.NoError(t, rec.Handle(context.Background(), NewStubEvent("order.submitted")))
}

func TestNewStubEvent(t *testing.T) {
	event := NewStubEvent("review.created")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "review.created", event.EventType())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Equal(t, "stub-data", event.Data)
}

func TestNewStubEventWithID(t *testing.T) {
	eventID := uuid.New()
	event := NewStubEventWithID(eventID, "order.status_changed")

	assert.Equal(t, eventID, event.EventID())
	assert.Equal(t, "order.status_changed", event.EventType())
}

func TestWaitForEvents(t *testing.T) {
	rec := NewEventRecorder("order.submitted")

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = rec.Handle(context.Background(), NewStubEvent("order.submitted"))
		_ = rec.Handle(context.Background(), NewStubEvent("order.submitted"))
	}()

	assert.True(t, WaitForEvents(t, rec, 2, 200*time.Millisecond))
	assert.False(t, WaitForEvents(t, rec, 3, 50*time.Millisecond))
}
