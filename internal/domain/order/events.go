package order

import (
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID `json:"user_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderCreatedEvent creates a new order created event
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		UserID:          o.GetUserID(),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderStatusChangedEvent is published on every order status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	OrderNumber string          `json:"order_number"`
	OldStatus   OrderStatus     `json:"old_status"`
	NewStatus   OrderStatus     `json:"new_status"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderStatusChangedEvent creates a new status changed event
func NewOrderStatusChangedEvent(o *Order, oldStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		UserID:          o.GetUserID(),
		OrderNumber:     o.OrderNumber,
		OldStatus:       oldStatus,
		NewStatus:       o.Status,
		Total:           o.Total,
	}
}
