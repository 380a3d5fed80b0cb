package request

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomRequestRepository defines persistence operations for custom requests
type CustomRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomRequest, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*CustomRequest, error)
	FindByRequestNumber(ctx context.Context, requestNumber string) (*CustomRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*CustomRequest, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*CustomRequest, error)
	Save(ctx context.Context, req *CustomRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status RequestStatus) (int64, error)

	// GenerateRequestNumber generates a unique request number (CR-YYYY-NNNNN)
	GenerateRequestNumber(ctx context.Context) (string, error)
}
