package event

import (
	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/domain/order"
	"github.com/shopcraft/backend/internal/domain/request"
	"github.com/shopcraft/backend/internal/domain/review"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain - User events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})

	// Design domain - Design Order events
	serializer.Register(design.EventTypeDesignOrderCreated, &design.DesignOrderCreatedEvent{})
	serializer.Register(design.EventTypeDesignOrderStatusChanged, &design.DesignOrderStatusChangedEvent{})

	// Order domain events
	serializer.Register(order.EventTypeOrderCreated, &order.OrderCreatedEvent{})
	serializer.Register(order.EventTypeOrderStatusChanged, &order.OrderStatusChangedEvent{})

	// Review domain events
	serializer.Register(review.EventTypeReviewCreated, &review.ReviewCreatedEvent{})
	serializer.Register(review.EventTypeReviewModerated, &review.ReviewModeratedEvent{})

	// Custom request domain events
	serializer.Register(request.EventTypeCustomRequestCreated, &request.CustomRequestCreatedEvent{})
	serializer.Register(request.EventTypeCustomRequestStatusChanged, &request.CustomRequestStatusChangedEvent{})
}
