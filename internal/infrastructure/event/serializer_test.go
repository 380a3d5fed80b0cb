package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type designUpdatedEvent struct {
	shared.BaseDomainEvent
	DesignName string `json:"design_name"`
	Revision   int    `json:"revision"`
}

func newDesignUpdatedEvent() *designUpdatedEvent {
	return &designUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("design.updated", "Design", uuid.New()),
		DesignName:      "retro wave tee",
		Revision:        4,
	}
}

func TestEventSerializer_Register(t *testing.T) {
	serializer := NewEventSerializer()

	serializer.Register("design.updated", &designUpdatedEvent{})

	assert.True(t, serializer.IsRegistered("design.updated"))
	assert.False(t, serializer.IsRegistered("design.deleted"))
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	serializer := NewEventSerializer()

	serializer.Register("design.updated", &designUpdatedEvent{})
	serializer.Register("design.created", &designUpdatedEvent{})

	types := serializer.RegisteredTypes()
	assert.Len(t, types, 2)
	assert.Contains(t, types, "design.updated")
	assert.Contains(t, types, "design.created")
}

func TestEventSerializer_Serialize(t *testing.T) {
	serializer := NewEventSerializer()
	event := newDesignUpdatedEvent()

	data, err := serializer.Serialize(event)

	require.NoError(t, err)
	assert.Contains(t, string(data), `"design_name":"retro wave tee"`)
	assert.Contains(t, string(data), `"revision":4`)
}

func TestEventSerializer_Deserialize(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("design.updated", &designUpdatedEvent{})

	original := newDesignUpdatedEvent()
	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	deserialized, err := serializer.Deserialize("design.updated", data)
	require.NoError(t, err)

	event, ok := deserialized.(*designUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventType(), event.EventType())
	assert.Equal(t, original.DesignName, event.DesignName)
	assert.Equal(t, original.Revision, event.Revision)
}

func TestEventSerializer_Deserialize_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("design.deleted", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_Deserialize_InvalidJSON(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("design.updated", &designUpdatedEvent{})

	_, err := serializer.Deserialize("design.updated", []byte(`invalid json`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestEventSerializer_RoundTrip_PreservesAllFields(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("design.updated", &designUpdatedEvent{})

	original := &designUpdatedEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        uuid.New(),
			Type:      "design.updated",
			Timestamp: time.Now().Truncate(time.Second),
			AggID:     uuid.New(),
			AggType:   "Design",
		},
		DesignName: "front chest logo",
		Revision:   12,
	}

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	deserialized, err := serializer.Deserialize("design.updated", data)
	require.NoError(t, err)

	event := deserialized.(*designUpdatedEvent)
	assert.Equal(t, original.EventID(), event.EventID())
	assert.Equal(t, original.EventType(), event.EventType())
	assert.Equal(t, original.AggregateID(), event.AggregateID())
	assert.Equal(t, original.AggregateType(), event.AggregateType())
	assert.Equal(t, original.DesignName, event.DesignName)
	assert.Equal(t, original.Revision, event.Revision)
}
