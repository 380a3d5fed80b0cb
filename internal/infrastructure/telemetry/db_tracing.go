// Package telemetry provides OpenTelemetry integration for distributed tracing.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include full SQL in spans, dev only
	SlowQueryThresh  time.Duration // queries slower than this get flagged
	DBSystem         string        // e.g. "postgresql"
	WithoutVariables bool          // strip query variables from spans
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, SQL
// text and variables hidden, 200ms slow-query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// contextKey keeps query timing values out of other packages' context
// namespaces.
type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the context with the current time so a
// later callback can compute query duration.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// stampQueryStart is the shared before-callback: it records the start
// time on the statement context.
func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotateQuerySpan enriches the active span with rows affected, table
// name, error status and slow-query markers. Record-not-found is not
// treated as an error.
func annotateQuerySpan(db *gorm.DB, slowThresh time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(startTime)
	if elapsed <= slowThresh {
		return
	}

	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", slowThresh.Milliseconds()),
	))
}

// registerBeforeHooks registers hook ahead of every GORM operation
// type under names derived from prefix.
func registerBeforeHooks(db *gorm.DB, prefix string, hook func(*gorm.DB)) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register(prefix+":before_create", hook),
		cb.Query().Before("gorm:query").Register(prefix+":before_query", hook),
		cb.Update().Before("gorm:update").Register(prefix+":before_update", hook),
		cb.Delete().Before("gorm:delete").Register(prefix+":before_delete", hook),
		cb.Row().Before("gorm:row").Register(prefix+":before_row", hook),
		cb.Raw().Before("gorm:raw").Register(prefix+":before_raw", hook),
	)
}

// registerAfterHooks registers hook behind every GORM operation type
// under names derived from prefix.
func registerAfterHooks(db *gorm.DB, prefix string, hook func(*gorm.DB)) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().After("gorm:create").Register(prefix+":create", hook),
		cb.Query().After("gorm:query").Register(prefix+":query", hook),
		cb.Update().After("gorm:update").Register(prefix+":update", hook),
		cb.Delete().After("gorm:delete").Register(prefix+":delete", hook),
		cb.Row().After("gorm:row").Register(prefix+":row", hook),
		cb.Raw().After("gorm:raw").Register(prefix+":raw", hook),
	)
}

// DBTracingPlugin wires the otelgorm plugin into a GORM DB and layers
// slow-query detection on top of the spans it produces.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs otelgorm plus the timing and slow-query
// callbacks on db. With tracing disabled it does nothing.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerBeforeHooks(db, "otel_timing", stampQueryStart); err != nil {
		return err
	}
	// slow-query detection runs after otelgorm so the span is live
	if err := registerAfterHooks(db, "otel_slow_query", p.slowQueryCallback); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	annotateQuerySpan(db, p.config.SlowQueryThresh)
}

// DBTracingCallback is the standalone variant of the timing callbacks,
// for wiring onto a DB that already has its own tracing plugin.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback creates a callback pair with the given slow-query threshold.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{slowQueryThresh: slowQueryThresh}
}

// BeforeCallback records the query start time on the statement context.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	stampQueryStart(db)
}

// AfterCallback annotates the active span with query outcome and timing.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	annotateQuerySpan(db, c.slowQueryThresh)
}

// RegisterCallbacks installs the before and after hooks on db.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerBeforeHooks(db, "otel_timing", c.BeforeCallback); err != nil {
		return err
	}
	return registerAfterHooks(db, "otel_timing:after", c.AfterCallback)
}
