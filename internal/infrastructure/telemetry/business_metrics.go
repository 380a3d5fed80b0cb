// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the storefront.
// It tracks order activity, review submissions, and the moderation backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal    *Counter
	orderAmountTotal     *Counter
	reviewSubmittedTotal *Counter

	// Gauge metrics (point-in-time values)
	reviewsPendingModeration *Gauge
	customRequestsOpen       *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	moderationProvider ModerationMetricsProvider
}

// ModerationMetricsProvider provides moderation backlog data for periodic
// metrics collection. This interface allows the telemetry layer to query
// review and custom request state without depending on those domains directly.
type ModerationMetricsProvider interface {
	// GetPendingReviewCount returns the number of reviews awaiting moderation
	GetPendingReviewCount(ctx context.Context) (int64, error)

	// GetOpenCustomRequestCount returns the number of custom requests not yet closed
	GetOpenCustomRequestCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter              metric.Meter
	Logger             *zap.Logger
	CollectInterval    time.Duration // Default: 5 minutes
	ModerationProvider ModerationMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:              cfg.Meter,
		logger:             logger,
		stopChan:           make(chan struct{}),
		moderationProvider: cfg.ModerationProvider,
	}

	// Initialize counter metrics
	var err error

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"storefront_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"storefront_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Review metrics
	bm.reviewSubmittedTotal, err = NewCounter(
		cfg.Meter,
		"storefront_review_submitted_total",
		"Total number of reviews submitted",
		"{reviews}",
	)
	if err != nil {
		return nil, err
	}

	// Moderation backlog gauge metrics
	bm.reviewsPendingModeration, err = NewGauge(
		cfg.Meter,
		"storefront_reviews_pending_moderation",
		"Number of reviews awaiting moderation",
		"{reviews}",
	)
	if err != nil {
		return nil, err
	}

	bm.customRequestsOpen, err = NewGauge(
		cfg.Meter,
		"storefront_custom_requests_open",
		"Number of custom requests not yet closed",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderType represents the type of order for metrics labeling.
type OrderType string

const (
	OrderTypeStandard OrderType = "standard"
	OrderTypeDesign   OrderType = "design"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, orderType OrderType) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrOrderType.String(string(orderType)),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, orderType OrderType, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrOrderType.String(string(orderType)),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, orderType OrderType, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, orderType)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, orderType, amountCents)
}

// =============================================================================
// Review Metrics
// =============================================================================

// RecordReviewSubmitted records a review submission with its star rating.
func (bm *BusinessMetrics) RecordReviewSubmitted(ctx context.Context, rating int) {
	bm.reviewSubmittedTotal.Inc(ctx,
		AttrRating.String(strconv.Itoa(rating)),
	)
}

// =============================================================================
// Moderation Backlog Metrics
// =============================================================================

// RecordPendingReviewCount records the number of reviews awaiting moderation.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordPendingReviewCount(ctx context.Context, count int64) {
	bm.reviewsPendingModeration.Record(ctx, count)
}

// RecordOpenCustomRequestCount records the number of open custom requests.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenCustomRequestCount(ctx context.Context, count int64) {
	bm.customRequestsOpen.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects moderation backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectModerationMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectModerationMetrics(ctx)
		}
	}
}

// collectModerationMetrics collects the moderation backlog gauge metrics.
func (bm *BusinessMetrics) collectModerationMetrics(ctx context.Context) {
	if bm.moderationProvider == nil {
		bm.logger.Debug("No moderation provider configured, skipping backlog metrics collection")
		return
	}

	pendingReviews, err := bm.moderationProvider.GetPendingReviewCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get pending review count", zap.Error(err))
	} else {
		bm.RecordPendingReviewCount(ctx, pendingReviews)
	}

	openRequests, err := bm.moderationProvider.GetOpenCustomRequestCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get open custom request count", zap.Error(err))
	} else {
		bm.RecordOpenCustomRequestCount(ctx, openRequests)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	// Additional business attributes can be added here
	AttrOrderSource = attribute.Key("order_source")
)
