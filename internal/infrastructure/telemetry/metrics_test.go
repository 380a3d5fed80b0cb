package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopcraft/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newDisabledMeterProvider(t *testing.T) *telemetry.MeterProvider {
	t.Helper()
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "shopcraft-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return mp
}

func newDisabledMeter(t *testing.T) metric.Meter {
	t.Helper()
	return newDisabledMeterProvider(t).Meter("test")
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp := newDisabledMeterProvider(t)

	assert.False(t, mp.IsEnabled())

	gotCfg := mp.GetConfig()
	assert.Equal(t, "shopcraft-test", gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	// even a meter from a disabled provider must be usable
	assert.NotNil(t, mp.Meter("checkout"))

	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMeterProvider_ShutdownWithCancelledContext(t *testing.T) {
	mp := newDisabledMeterProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	// needs a reachable OTLP collector, run locally with the compose stack
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Second,
		ServiceName:       "shopcraft-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, mp.IsEnabled())
	require.NotNil(t, mp.Meter("test"))

	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_InvalidEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.ErrorLevel))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// the exporter connects lazily, so creation may succeed anyway
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "invalid-host:99999",
		ExportInterval:    time.Second,
		ServiceName:       "shopcraft-test",
	}, logger)
	if err != nil {
		t.Logf("expected connection error: %v", err)
		return
	}
	_ = mp.Shutdown(context.Background())
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeter(t)

	counter, err := telemetry.NewCounter(meter, "orders_submitted_total", "Orders submitted", "{order}")
	require.NoError(t, err)
	require.NotNil(t, counter)

	counter.Add(ctx, 5, attribute.String("method", "GET"))
	counter.Add(ctx, 10, attribute.String("method", "POST"))
	counter.Inc(ctx)
	counter.Inc(ctx, attribute.String("status", "success"))
	counter.Inc(ctx, attribute.String("status", "error"))
}

func TestHistogram(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeter(t)

	t.Run("record raw values", func(t *testing.T) {
		histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Description: "HTTP request duration",
			Unit:        "s",
			Boundaries:  telemetry.HTTPDurationBuckets,
		})
		require.NoError(t, err)

		histogram.Record(ctx, 0.005)
		histogram.Record(ctx, 0.1, attribute.String("route", "/api/v1/products"))
		histogram.Record(ctx, 2.5, attribute.String("route", "/api/v1/orders"))
	})

	t.Run("record durations", func(t *testing.T) {
		histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Description: "Database query duration",
			Unit:        "s",
			Boundaries:  telemetry.DBDurationBuckets,
		})
		require.NoError(t, err)

		histogram.RecordDuration(ctx, 5*time.Millisecond)
		histogram.RecordDuration(ctx, 100*time.Millisecond, telemetry.AttrDBOperation.String("SELECT"))
		histogram.RecordDuration(ctx, time.Second, telemetry.AttrDBOperation.String("INSERT"))
	})

	t.Run("custom boundaries", func(t *testing.T) {
		histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
			Name:        "price_quote_duration_seconds",
			Description: "Price quote computation duration",
			Unit:        "s",
			Boundaries:  []float64{0.1, 0.5, 1.0, 5.0, 10.0},
		})
		require.NoError(t, err)

		histogram.Record(ctx, 0.25)
	})

	t.Run("SDK default boundaries when none given", func(t *testing.T) {
		histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
			Name:        "default_histogram",
			Description: "Histogram with default boundaries",
			Unit:        "s",
		})
		require.NoError(t, err)

		histogram.Record(ctx, 1.5)
	})
}

func TestGauges(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeter(t)

	gauge, err := telemetry.NewGauge(meter, "active_connections", "Number of active connections", "{connection}")
	require.NoError(t, err)

	gauge.Record(ctx, 10)
	gauge.Record(ctx, 15, attribute.String("pool", "db"))
	gauge.Record(ctx, 5, attribute.String("pool", "redis"))

	floatGauge, err := telemetry.NewFloatGauge(meter, "cpu_usage_percent", "CPU usage percentage", "%")
	require.NoError(t, err)

	floatGauge.Record(ctx, 45.5)
	floatGauge.Record(ctx, 78.2, attribute.String("core", "0"))
}

func TestAttributeKeys(t *testing.T) {
	keys := map[attribute.Key]string{
		telemetry.AttrUserID:         "user_id",
		telemetry.AttrHTTPMethod:     "http.method",
		telemetry.AttrHTTPStatusCode: "http.status_code",
		telemetry.AttrHTTPRoute:      "http.route",
		telemetry.AttrDBOperation:    "db.operation",
		telemetry.AttrDBTable:        "db.table",
		telemetry.AttrDBState:        "db.pool.state",
		telemetry.AttrOrderType:      "order_type",
		telemetry.AttrProductID:      "product_id",
		telemetry.AttrCategoryID:     "category_id",
		telemetry.AttrRating:         "rating",
		telemetry.AttrDesignType:     "design_type",
	}

	for key, want := range keys {
		assert.Equal(t, want, string(key))
	}
}

func TestDefaultBuckets(t *testing.T) {
	assert.Equal(t, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, telemetry.HTTPDurationBuckets)
	assert.Equal(t, []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}, telemetry.DBDurationBuckets)
	assert.Equal(t, []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}, telemetry.SmallDurationBuckets)
}
