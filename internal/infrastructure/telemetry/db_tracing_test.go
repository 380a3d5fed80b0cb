package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type catalogRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogRow{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func findAttr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestNewDBTracingPlugin(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	require.NotNil(t, plugin)
	assert.Equal(t, cfg, plugin.config)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	sqliteConfig := func(fullSQL bool) DBTracingConfig {
		return DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       fullSQL,
			SlowQueryThresh:  200 * time.Millisecond,
			DBSystem:         "sqlite",
			WithoutVariables: !fullSQL,
		}
	}

	t.Run("disabled is a no-op", func(t *testing.T) {
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
		assert.NoError(t, plugin.RegisterOtelGorm(newTracingTestDB(t)))
	})

	t.Run("enabled registers callbacks", func(t *testing.T) {
		plugin := NewDBTracingPlugin(sqliteConfig(false), zap.NewNop())
		assert.NoError(t, plugin.RegisterOtelGorm(newTracingTestDB(t)))
	})

	t.Run("full SQL mode registers callbacks", func(t *testing.T) {
		plugin := NewDBTracingPlugin(sqliteConfig(true), zap.NewNop())
		assert.NoError(t, plugin.RegisterOtelGorm(newTracingTestDB(t)))
	})

	t.Run("second registration on the same DB fails", func(t *testing.T) {
		db := newTracingTestDB(t)
		plugin := NewDBTracingPlugin(sqliteConfig(false), zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))
		assert.Error(t, plugin.RegisterOtelGorm(db))
	})
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), startTime, time.Second)
}

func TestDBTracingCallback_RowsAffected(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "bulk-insert")
	db = db.WithContext(ctx)

	rows := []catalogRow{{Name: "classic tee"}, {Name: "zip hoodie"}, {Name: "dad cap"}}
	result := db.Create(&rows)
	require.NoError(t, result.Error)

	NewDBTracingCallback(200 * time.Millisecond).AfterCallback(result.Statement.DB)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	value, found := findAttr(spans[0].Attributes(), "db.rows_affected")
	require.True(t, found, "db.rows_affected attribute should be present")
	assert.Equal(t, int64(3), value.AsInt64())
}

func TestDBTracingCallback_TableName(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "insert")
	db = db.WithContext(ctx)

	result := db.Create(&catalogRow{Name: "classic tee"})
	require.NoError(t, result.Error)

	NewDBTracingCallback(200 * time.Millisecond).AfterCallback(result.Statement.DB)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	if value, found := findAttr(spans[0].Attributes(), "db.sql.table"); found {
		assert.Equal(t, "catalog_rows", value.AsString())
	}
}

func TestDBTracingCallback_RecordNotFoundIsNotAnError(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "lookup-missing")
	db = db.WithContext(ctx)

	var row catalogRow
	tx := db.First(&row, 99999)
	require.Error(t, tx.Error)

	NewDBTracingCallback(200 * time.Millisecond).AfterCallback(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestDBTracingCallback_SlowQueryMarking(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow-lookup")
	ctx = WithQueryStartTime(ctx)
	time.Sleep(time.Millisecond)
	db = db.WithContext(ctx)

	var row catalogRow
	db.First(&row)

	// 1ns threshold so any real query counts as slow
	NewDBTracingCallback(time.Nanosecond).AfterCallback(db.Statement.DB)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	value, found := findAttr(spans[0].Attributes(), "db.slow_query")
	require.True(t, found)
	assert.True(t, value.AsBool())

	var sawWarning bool
	for _, event := range spans[0].Events() {
		if event.Name == "slow_query_warning" {
			sawWarning = true
			if duration, ok := findAttr(event.Attributes, "duration_ms"); ok {
				assert.GreaterOrEqual(t, duration.AsInt64(), int64(1))
			}
		}
	}
	assert.True(t, sawWarning)
}

func TestDBTracingCallback_RegisterCallbacks(t *testing.T) {
	db := newTracingTestDB(t)
	callback := NewDBTracingCallback(200 * time.Millisecond)

	assert.NoError(t, callback.RegisterCallbacks(db))
}

func TestAnnotateQuerySpan_SafeWithoutSpanOrContext(t *testing.T) {
	db := newTracingTestDB(t)

	// no active span
	annotateQuerySpan(db.WithContext(context.Background()), 200*time.Millisecond)

	// no context on the statement at all
	annotateQuerySpan(db, 200*time.Millisecond)
}

func TestDBTracingPlugin_TracesRealQueries(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "catalog-roundtrip")
	db = db.WithContext(ctx)

	require.NoError(t, db.Create(&catalogRow{Name: "tour poster"}).Error)

	var found catalogRow
	require.NoError(t, db.First(&found, "name = ?", "tour poster").Error)
	assert.Equal(t, "tour poster", found.Name)

	span.End()
	assert.NotEmpty(t, recorder.Ended())
}

func BenchmarkAnnotateQuerySpan(b *testing.B) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		b.Fatal(err)
	}
	if err := db.AutoMigrate(&catalogRow{}); err != nil {
		b.Fatal(err)
	}
	db = db.WithContext(context.Background())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		annotateQuerySpan(db, 200*time.Millisecond)
	}
}
