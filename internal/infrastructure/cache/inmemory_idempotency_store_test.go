package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first sighting is new", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "evt-order-submitted-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("second sighting is a duplicate", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "evt-review-created-7", time.Hour)
		require.NoError(t, err)
		require.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "evt-review-created-7", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired entry counts as new again", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "evt-status-changed-3", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "evt-status-changed-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "evt-never-seen")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "evt-seen", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "evt-seen")
	require.NoError(t, err)
	assert.True(t, processed)

	_, err = store.MarkProcessed(ctx, "evt-stale", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	processed, err = store.IsProcessed(ctx, "evt-stale")
	require.NoError(t, err)
	assert.False(t, processed, "expired entries must not count as processed")
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	assert.Equal(t, 0, store.Size())

	_, _ = store.MarkProcessed(ctx, "evt-1", time.Hour)
	_, _ = store.MarkProcessed(ctx, "evt-2", time.Hour)
	assert.Equal(t, 2, store.Size())

	// duplicates do not add entries
	_, _ = store.MarkProcessed(ctx, "evt-1", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "evt-short-1", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "evt-short-2", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "evt-long", time.Hour)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "evt-long")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentMarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const goroutines = 100
	results := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			isNew, err := store.MarkProcessed(ctx, "evt-contended", time.Hour)
			results <- err == nil && isNew
		}()
	}

	newCount := 0
	for i := 0; i < goroutines; i++ {
		if <-results {
			newCount++
		}
	}

	assert.Equal(t, 1, newCount, "exactly one caller may win the mark")
}

func TestInMemoryIdempotencyStore_DistinctEvents(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		isNew, err := store.MarkProcessed(ctx, fmt.Sprintf("evt-%d", i), time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "distinct IDs never collide")
	}
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
