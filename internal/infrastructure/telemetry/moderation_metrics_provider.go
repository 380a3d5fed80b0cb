// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormModerationMetricsProvider implements ModerationMetricsProvider using GORM.
// It queries the reviews and custom_requests tables directly for aggregated counts.
type GormModerationMetricsProvider struct {
	db *gorm.DB
}

// NewGormModerationMetricsProvider creates a new GormModerationMetricsProvider.
func NewGormModerationMetricsProvider(db *gorm.DB) *GormModerationMetricsProvider {
	return &GormModerationMetricsProvider{db: db}
}

// GetPendingReviewCount returns the number of reviews awaiting moderation.
func (p *GormModerationMetricsProvider) GetPendingReviewCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("reviews").
		Where("status = ?", "pending").
		Count(&count).Error

	return count, err
}

// GetOpenCustomRequestCount returns the number of custom requests not yet closed.
func (p *GormModerationMetricsProvider) GetOpenCustomRequestCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("custom_requests").
		Where("status IN ?", []string{"pending", "in-progress"}).
		Count(&count).Error

	return count, err
}
