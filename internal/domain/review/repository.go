package review

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RatingSummary aggregates the approved reviews of one product:
// review count, average rating, and the per-star distribution.
type RatingSummary struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ReviewCount   int64           `json:"review_count"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Distribution  map[int]int64   `json:"distribution"`
}

// EmptyRatingSummary returns a summary for a product with no approved
// reviews: zero count, zero average, all five buckets present at zero.
func EmptyRatingSummary(productID uuid.UUID) RatingSummary {
	distribution := make(map[int]int64, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		distribution[star] = 0
	}
	return RatingSummary{
		ProductID:     productID,
		AverageRating: decimal.Zero,
		Distribution:  distribution,
	}
}

// ReviewRepository defines persistence operations for reviews
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error)
	FindApprovedByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*Review, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Review, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountApprovedByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	RatingSummaryByProduct(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
	ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
