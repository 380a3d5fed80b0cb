package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDesignOrderRepository implements DesignOrderRepository using GORM
type GormDesignOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormDesignOrderRepository creates a new GormDesignOrderRepository
func NewGormDesignOrderRepository(db *gorm.DB) *GormDesignOrderRepository {
	return &GormDesignOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormDesignOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a design order by its ID
func (r *GormDesignOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.DesignOrder, error) {
	var order design.DesignOrder
	if err := r.db.WithContext(ctx).
		Preload("Placements").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser finds a design order owned by the given user
func (r *GormDesignOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*design.DesignOrder, error) {
	var order design.DesignOrder
	if err := r.db.WithContext(ctx).
		Preload("Placements").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a design order by its order number
func (r *GormDesignOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*design.DesignOrder, error) {
	var order design.DesignOrder
	if err := r.db.WithContext(ctx).
		Preload("Placements").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all design orders matching the filter
func (r *GormDesignOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]design.DesignOrder, error) {
	var orders []design.DesignOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&design.DesignOrder{}).Preload("Placements"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllForUser finds all design orders owned by the given user
func (r *GormDesignOrderRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]design.DesignOrder, error) {
	var orders []design.DesignOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&design.DesignOrder{}).Preload("Placements").
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a design order together with its placements
func (r *GormDesignOrderRepository) Save(ctx context.Context, order *design.DesignOrder) error {
	events := order.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		if order.ID != uuid.Nil {
			currentPlacementIDs := make([]uuid.UUID, len(order.Placements))
			for i, placement := range order.Placements {
				currentPlacementIDs[i] = placement.ID
			}

			// Delete placements removed from the order
			if len(currentPlacementIDs) > 0 {
				if err := tx.Where("design_order_id = ? AND id NOT IN ?", order.ID, currentPlacementIDs).
					Delete(&design.Placement{}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Where("design_order_id = ?", order.ID).
					Delete(&design.Placement{}).Error; err != nil {
					return err
				}
			}

			for i := range order.Placements {
				order.Placements[i].DesignOrderID = order.ID
				if err := tx.Save(&order.Placements[i]).Error; err != nil {
					return err
				}
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// Delete deletes a design order and its placements
func (r *GormDesignOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("design_order_id = ?", id).Delete(&design.Placement{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&design.DesignOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts design orders matching the filter
func (r *GormDesignOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&design.DesignOrder{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForUser counts design orders owned by the given user
func (r *GormDesignOrderRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&design.DesignOrder{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts design orders in the given status
func (r *GormDesignOrderRepository) CountByStatus(ctx context.Context, status design.DesignOrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&design.DesignOrder{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique design order number
// Format: DO-YYYY-NNNNN (e.g., DO-2026-00001)
func (r *GormDesignOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("DO-%d-", year)

	var lastOrder design.DesignOrder
	err := r.db.WithContext(ctx).
		Model(&design.DesignOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness, incrementing on collision
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&design.DesignOrder{}).
			Where("order_number = ?", orderNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return orderNumber, nil
		}
		nextNum++
		orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return "", fmt.Errorf("failed to generate unique design order number after 100 attempts")
}

// applyFilter applies filter options to a query
func (r *GormDesignOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation
	orderBy := ValidateSortField(filter.OrderBy, DesignOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDesignOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR product_name ILIKE ? OR design_file_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "design_type":
			query = query.Where("design_type = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormDesignOrderRepository implements DesignOrderRepository
var _ design.DesignOrderRepository = (*GormDesignOrderRepository)(nil)
