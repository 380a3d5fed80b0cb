package review

import (
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeReview = "Review"

// Event type constants
const (
	EventTypeReviewCreated   = "ReviewCreated"
	EventTypeReviewModerated = "ReviewModerated"
)

// ReviewCreatedEvent is published when a customer submits a review
type ReviewCreatedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
}

// NewReviewCreatedEvent creates a new review created event
func NewReviewCreatedEvent(r *Review) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewCreated, AggregateTypeReview, r.ID),
		UserID:          r.GetUserID(),
		ProductID:       r.ProductID,
		Rating:          r.Rating,
	}
}

// ReviewModeratedEvent is published when a review is approved or rejected
type ReviewModeratedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID    `json:"product_id"`
	Status    ReviewStatus `json:"status"`
}

// NewReviewModeratedEvent creates a new review moderated event
func NewReviewModeratedEvent(r *Review) *ReviewModeratedEvent {
	return &ReviewModeratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewModerated, AggregateTypeReview, r.ID),
		ProductID:       r.ProductID,
		Status:          r.Status,
	}
}
