package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferedLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	return zap.New(core), &buf
}

func TestWithContextRoundTrip(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContext_Fallbacks(t *testing.T) {
	t.Run("empty context returns nop", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Info("safe") })
	})

	t.Run("wrong value type returns nop", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		logger := FromContext(ctx)
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Info("safe") })
	})
}

func TestContextEnrichment(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithRole(ctx, logger, "customer")
	ctx, logger = WithUserID(ctx, logger, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "customer", GetRole(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.NotNil(t, logger)
}

func TestContextGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetRole(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestWithRequestID_Overrides(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx, _ := WithRequestID(context.Background(), logger, "first")
	ctx, _ = WithRequestID(ctx, logger, "second")

	assert.Equal(t, "second", GetRequestID(ctx))
}

func TestWithRequestID_StoresEnrichedLogger(t *testing.T) {
	base, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx, tagged := WithRequestID(context.Background(), base, "req-test")

	assert.NotNil(t, FromContext(ctx))
	assert.NotEqual(t, base, tagged)
}

func TestContextKeysDistinct(t *testing.T) {
	keys := []contextKey{LoggerKey, RequestIDKey, RoleKey, UserIDKey}
	seen := map[contextKey]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate context key %q", k)
		seen[k] = true
	}
}

func TestTraceAccessors_NoSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestTraceAccessors_NoopSpanIsInvalid(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	ctx, span := tracer.Start(context.Background(), "span")
	defer span.End()

	// noop spans carry an invalid span context
	assert.False(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	base := zap.NewNop()

	t.Run("no span leaves logger untouched", func(t *testing.T) {
		assert.Equal(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("invalid span leaves logger untouched", func(t *testing.T) {
		tracer := noop.NewTracerProvider().Tracer("test")
		ctx, span := tracer.Start(context.Background(), "span")
		defer span.End()

		assert.Equal(t, base, WithTraceContext(ctx, base))
	})
}

func TestL(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		cl := L(context.Background())
		require.NotNil(t, cl)
		assert.NotNil(t, cl.logger)
	})

	t.Run("logger pulled from context", func(t *testing.T) {
		logger, err := NewForEnvironment("development")
		require.NoError(t, err)

		cl := L(WithContext(context.Background(), logger))
		require.NotNil(t, cl)
		assert.NotNil(t, cl.logger)
	})
}

func TestWithLogger(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	cl := WithLogger(context.Background(), logger)
	require.NotNil(t, cl)
	assert.Equal(t, logger, cl.logger)
}

func TestContextLogger_With(t *testing.T) {
	base, _ := newBufferedLogger()
	ctx := context.Background()

	child := WithLogger(ctx, base).With(zap.String("component", "cart"))

	require.NotNil(t, child)
	assert.Equal(t, ctx, child.ctx)
	assert.NotEqual(t, base, child.logger)
}

func TestContextLogger_WithChaining(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop()).
		With(zap.String("a", "1")).
		With(zap.String("b", "2"))

	assert.NotPanics(t, func() { cl.Info("chained") })
}

func TestContextLogger_AllLevelsSafe(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	assert.NotPanics(t, func() {
		cl.Debug("d")
		cl.Info("i")
		cl.Warn("w")
		cl.Error("e")
	})
}

func TestContextLogger_NilLoggerSafe(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() { cl.Info("still fine") })
}

func TestContextLogger_ZapAndSugar(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	zl := cl.Zap()
	require.NotNil(t, zl)
	assert.NotPanics(t, func() { zl.Info("via zap") })

	sugar := cl.Sugar()
	require.NotNil(t, sugar)
	assert.NotPanics(t, func() { sugar.Infof("via %s", "sugar") })
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	base, buf := newBufferedLogger()

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-123")
	ctx, _ = WithRole(ctx, base, "customer")
	ctx, _ = WithUserID(ctx, base, "user-789")
	ctx = WithContext(ctx, base)

	L(ctx).Info("checkout started", zap.String("cart_id", "cart-5"))

	output := buf.String()
	assert.Contains(t, output, `"request_id":"req-123"`)
	assert.Contains(t, output, `"role":"customer"`)
	assert.Contains(t, output, `"user_id":"user-789"`)
	assert.Contains(t, output, `"cart_id":"cart-5"`)
	assert.Contains(t, output, `"msg":"checkout started"`)
}

func TestContextLogger_SkipsEmptyFields(t *testing.T) {
	base, buf := newBufferedLogger()

	WithLogger(context.Background(), base).Info("bare")

	output := buf.String()
	assert.Contains(t, output, `"msg":"bare"`)
	assert.NotContains(t, output, `"request_id"`)
	assert.NotContains(t, output, `"role"`)
	assert.NotContains(t, output, `"user_id"`)
}
