package persistence

import (
	"context"
	"errors"

	"github.com/shopcraft/backend/internal/domain/review"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormReviewRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByIDForUser finds a review owned by the given user
func (r *GormReviewRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByUserAndProduct finds the review a user wrote for a product
func (r *GormReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindApprovedByProduct finds the approved reviews of a product
func (r *GormReviewRepository) FindApprovedByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*review.Review, error) {
	var reviews []*review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).
			Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAll finds all reviews matching the filter
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*review.Review, error) {
	var reviews []*review.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAllForUser finds all reviews owned by the given user
func (r *GormReviewRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*review.Review, error) {
	var reviews []*review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	events := rev.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rev).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			return r.outboxSaver.SaveEvents(ctx, tx, events...)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rev.ClearDomainEvents()
	return nil
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&review.Review{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountApprovedByProduct counts the approved reviews of a product
func (r *GormReviewRepository) CountApprovedByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RatingSummaryByProduct aggregates the approved reviews of a product
// into a count, an average rating, and a per-star distribution
func (r *GormReviewRepository) RatingSummaryByProduct(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	type ratingBucket struct {
		Rating int
		Count  int64
	}

	var buckets []ratingBucket
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("rating, count(*) as count").
		Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved).
		Group("rating").
		Scan(&buckets).Error; err != nil {
		return review.RatingSummary{}, err
	}

	summary := review.EmptyRatingSummary(productID)

	var total int64
	var weightedSum int64
	for _, bucket := range buckets {
		if bucket.Rating < review.MinRating || bucket.Rating > review.MaxRating {
			continue
		}
		summary.Distribution[bucket.Rating] = bucket.Count
		total += bucket.Count
		weightedSum += int64(bucket.Rating) * bucket.Count
	}

	summary.ReviewCount = total
	if total > 0 {
		summary.AverageRating = decimal.NewFromInt(weightedSum).
			Div(decimal.NewFromInt(total)).
			Round(2)
	}

	return summary, nil
}

// ExistsByUserAndProduct checks if a user already reviewed a product
func (r *GormReviewRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to a query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation
	orderBy := ValidateSortField(filter.OrderBy, ReviewSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReviewRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR comment ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "rating":
			query = query.Where("rating = ?", value)
		case "min_rating":
			query = query.Where("rating >= ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	return query
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
