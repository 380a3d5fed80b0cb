package order

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for customer orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)

	// GenerateOrderNumber generates a unique order number (ORD-YYYY-NNNNN)
	GenerateOrderNumber(ctx context.Context) (string, error)
}
