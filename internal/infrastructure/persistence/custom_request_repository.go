package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/request"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomRequestRepository implements CustomRequestRepository using GORM
type GormCustomRequestRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormCustomRequestRepository creates a new GormCustomRequestRepository
func NewGormCustomRequestRepository(db *gorm.DB) *GormCustomRequestRepository {
	return &GormCustomRequestRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormCustomRequestRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a custom request by its ID
func (r *GormCustomRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.CustomRequest, error) {
	var req request.CustomRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByIDForUser finds a custom request owned by the given user
func (r *GormCustomRequestRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*request.CustomRequest, error) {
	var req request.CustomRequest
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByRequestNumber finds a custom request by its request number
func (r *GormCustomRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*request.CustomRequest, error) {
	var req request.CustomRequest
	if err := r.db.WithContext(ctx).
		Where("request_number = ?", requestNumber).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll finds all custom requests matching the filter
func (r *GormCustomRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*request.CustomRequest, error) {
	var requests []*request.CustomRequest
	query := r.applyFilter(r.db.WithContext(ctx).Model(&request.CustomRequest{}), filter)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAllForUser finds all custom requests owned by the given user
func (r *GormCustomRequestRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*request.CustomRequest, error) {
	var requests []*request.CustomRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&request.CustomRequest{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a custom request
func (r *GormCustomRequestRepository) Save(ctx context.Context, req *request.CustomRequest) error {
	events := req.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
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

	req.ClearDomainEvents()
	return nil
}

// Delete deletes a custom request
func (r *GormCustomRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&request.CustomRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts custom requests matching the filter
func (r *GormCustomRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&request.CustomRequest{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts custom requests in the given status
func (r *GormCustomRequestRepository) CountByStatus(ctx context.Context, status request.RequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&request.CustomRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateRequestNumber generates a unique request number
// Format: CR-YYYY-NNNNN (e.g., CR-2026-00001)
func (r *GormCustomRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("CR-%d-", year)

	var lastRequest request.CustomRequest
	err := r.db.WithContext(ctx).
		Model(&request.CustomRequest{}).
		Where("request_number LIKE ?", prefix+"%").
		Order("request_number DESC").
		First(&lastRequest).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastRequest.RequestNumber != "" {
		parts := strings.Split(lastRequest.RequestNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	requestNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness, incrementing on collision
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&request.CustomRequest{}).
			Where("request_number = ?", requestNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return requestNumber, nil
		}
		nextNum++
		requestNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return "", fmt.Errorf("failed to generate unique request number after 100 attempts")
}

// applyFilter applies filter options to a query
func (r *GormCustomRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation
	orderBy := ValidateSortField(filter.OrderBy, CustomRequestSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR subject ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "request_type":
			query = query.Where("request_type = ?", value)
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

// Ensure GormCustomRequestRepository implements CustomRequestRepository
var _ request.CustomRequestRepository = (*GormCustomRequestRepository)(nil)
