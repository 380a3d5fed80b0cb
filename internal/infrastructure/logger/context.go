package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// RoleKey is the context key for the authenticated role
	RoleKey contextKey = "role"
	// UserIDKey is the context key for user ID
	UserIDKey contextKey = "user_id"
)

// WithContext attaches the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger attached to the context, or a no-op
// logger when none is attached
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID on the context and returns a
// logger tagged with it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	tagged := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// WithRole stores the authenticated role on the context and returns a
// logger tagged with it
func WithRole(ctx context.Context, logger *zap.Logger, role string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RoleKey, role)
	tagged := logger.With(zap.String("role", role))
	return WithContext(ctx, tagged), tagged
}

// WithUserID stores the user ID on the context and returns a logger
// tagged with it
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	tagged := logger.With(zap.String("user_id", userID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID reads the request ID from the context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetRole reads the authenticated role from the context
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// GetUserID reads the user ID from the context
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// validSpanContext returns the span context when the context carries a
// recording span, false otherwise
func validSpanContext(ctx context.Context) (trace.SpanContext, bool) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return trace.SpanContext{}, false
	}
	spanCtx := span.SpanContext()
	return spanCtx, spanCtx.IsValid()
}

// GetTraceID returns the active trace ID, or "" when no valid span is
// on the context
func GetTraceID(ctx context.Context) string {
	if spanCtx, ok := validSpanContext(ctx); ok {
		return spanCtx.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span ID, or "" when no valid span is on
// the context
func GetSpanID(ctx context.Context) string {
	if spanCtx, ok := validSpanContext(ctx); ok {
		return spanCtx.SpanID().String()
	}
	return ""
}

// WithTraceContext tags the logger with trace_id and span_id from the
// context's span. Without a valid span the logger is returned as is.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx, ok := validSpanContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// ContextLogger logs with automatic correlation: every entry carries
// the trace IDs, request ID, role, and user ID found on the context.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L builds a ContextLogger from the context. Typical use:
//
//	logger.L(ctx).Info("order confirmed", zap.String("order_id", id))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger builds a ContextLogger around an explicit logger instead
// of the one stored on the context
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	if spanCtx, ok := validSpanContext(cl.ctx); ok {
		l = l.With(
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if role := GetRole(cl.ctx); role != "" {
		l = l.With(zap.String("role", role))
	}
	if userID := GetUserID(cl.ctx); userID != "" {
		l = l.With(zap.String("user_id", userID))
	}
	return l
}

// With returns a child ContextLogger carrying additional fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Fatal(msg, fields...)
}

func (cl *ContextLogger) Panic(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Panic(msg, fields...)
}

// Zap returns the enriched *zap.Logger for APIs that take one directly
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}

// Sugar returns the enriched logger in sugared form
func (cl *ContextLogger) Sugar() *zap.SugaredLogger {
	return cl.enrichedLogger().Sugar()
}
