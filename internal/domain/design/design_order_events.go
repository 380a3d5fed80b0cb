package design

import (
	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeDesignOrder = "DesignOrder"

// Event type constants
const (
	EventTypeDesignOrderCreated       = "DesignOrderCreated"
	EventTypeDesignOrderStatusChanged = "DesignOrderStatusChanged"
)

// DesignOrderCreatedEvent is published when a design order is submitted
type DesignOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	UserID         uuid.UUID       `json:"user_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	DesignType     DesignType      `json:"design_type"`
	PlacementCount int             `json:"placement_count"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// NewDesignOrderCreatedEvent creates a new DesignOrderCreatedEvent
func NewDesignOrderCreatedEvent(order *DesignOrder) *DesignOrderCreatedEvent {
	return &DesignOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignOrderCreated, AggregateTypeDesignOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		ProductID:       order.ProductID,
		ProductName:     order.ProductName,
		DesignType:      order.DesignType,
		PlacementCount:  len(order.Placements),
		Quantity:        order.Quantity,
		TotalPrice:      order.TotalPrice,
	}
}

// EventType returns the event type name
func (e *DesignOrderCreatedEvent) EventType() string {
	return EventTypeDesignOrderCreated
}

// DesignOrderStatusChangedEvent is published on every status transition
type DesignOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID         `json:"order_id"`
	OrderNumber  string            `json:"order_number"`
	UserID       uuid.UUID         `json:"user_id"`
	OldStatus    DesignOrderStatus `json:"old_status"`
	NewStatus    DesignOrderStatus `json:"new_status"`
	CancelReason string            `json:"cancel_reason,omitempty"`
}

// NewDesignOrderStatusChangedEvent creates a new DesignOrderStatusChangedEvent
func NewDesignOrderStatusChangedEvent(order *DesignOrder, oldStatus DesignOrderStatus) *DesignOrderStatusChangedEvent {
	return &DesignOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignOrderStatusChanged, AggregateTypeDesignOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		OldStatus:       oldStatus,
		NewStatus:       order.Status,
		CancelReason:    order.CancelReason,
	}
}

// EventType returns the event type name
func (e *DesignOrderStatusChangedEvent) EventType() string {
	return EventTypeDesignOrderStatusChanged
}
