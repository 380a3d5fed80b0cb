package design

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
)

// DesignOrderRepository defines the interface for design order persistence
type DesignOrderRepository interface {
	// FindByID finds a design order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DesignOrder, error)

	// FindByIDForUser finds a design order owned by the given user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*DesignOrder, error)

	// FindByOrderNumber finds a design order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*DesignOrder, error)

	// FindAll finds all design orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]DesignOrder, error)

	// FindAllForUser finds all design orders owned by the given user
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]DesignOrder, error)

	// Save creates or updates a design order together with its placements
	Save(ctx context.Context, order *DesignOrder) error

	// Delete deletes a design order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts design orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountForUser counts design orders owned by the given user
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts design orders in the given status
	CountByStatus(ctx context.Context, status DesignOrderStatus) (int64, error)

	// GenerateOrderNumber generates a unique order number (DO-YYYY-NNNNN)
	GenerateOrderNumber(ctx context.Context) (string, error)
}
