package request

import (
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeCustomRequest = "CustomRequest"

// Event type constants
const (
	EventTypeCustomRequestCreated       = "CustomRequestCreated"
	EventTypeCustomRequestStatusChanged = "CustomRequestStatusChanged"
)

// CustomRequestCreatedEvent is published when a custom request is submitted
type CustomRequestCreatedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID   `json:"user_id"`
	RequestNumber string      `json:"request_number"`
	RequestType   RequestType `json:"request_type"`
	Subject       string      `json:"subject"`
}

// NewCustomRequestCreatedEvent creates a new custom request created event
func NewCustomRequestCreatedEvent(req *CustomRequest) *CustomRequestCreatedEvent {
	return &CustomRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomRequestCreated, AggregateTypeCustomRequest, req.ID),
		UserID:        req.GetUserID(),
		RequestNumber: req.RequestNumber,
		RequestType:   req.RequestType,
		Subject:       req.Subject,
	}
}

// CustomRequestStatusChangedEvent is published when a request changes status
type CustomRequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID     `json:"user_id"`
	RequestNumber string        `json:"request_number"`
	OldStatus     RequestStatus `json:"old_status"`
	NewStatus     RequestStatus `json:"new_status"`
}

// NewCustomRequestStatusChangedEvent creates a new status changed event
func NewCustomRequestStatusChangedEvent(req *CustomRequest, oldStatus RequestStatus) *CustomRequestStatusChangedEvent {
	return &CustomRequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomRequestStatusChanged, AggregateTypeCustomRequest, req.ID),
		UserID:        req.GetUserID(),
		RequestNumber: req.RequestNumber,
		OldStatus:     oldStatus,
		NewStatus:     req.Status,
	}
}
