package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter entry", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:          uuid.New(),
			EventID:     uuid.New(),
			EventType:   "order.submitted",
			AggregateID: uuid.New(),
			Status:      OutboxStatusDead,
			RetryCount:  5,
			MaxRetries:  5,
			LastError:   "bus unavailable",
			NextRetryAt: nil,
			CreatedAt:   time.Now().Add(-time.Hour),
			UpdatedAt:   time.Now().Add(-time.Minute),
		}

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
		assert.True(t, entry.UpdatedAt.After(time.Now().Add(-time.Second)))
	})

	t.Run("rejects every non-dead status", func(t *testing.T) {
		for _, status := range []OutboxStatus{
			OutboxStatusPending,
			OutboxStatusProcessing,
			OutboxStatusSent,
			OutboxStatusFailed,
		} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}

			err := entry.ResetForRetry()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "can only retry dead letter entries")
		}
	})
}

func TestOutboxEntry_IsDead(t *testing.T) {
	assert.True(t, (&OutboxEntry{Status: OutboxStatusDead}).IsDead())

	for _, status := range []OutboxStatus{
		OutboxStatusPending,
		OutboxStatusProcessing,
		OutboxStatusSent,
		OutboxStatusFailed,
	} {
		assert.False(t, (&OutboxEntry{Status: status}).IsDead())
	}
}

func TestOutboxEntry_MarkFailed_MovesToDeadAfterMaxRetries(t *testing.T) {
	entry := &OutboxEntry{
		ID:         uuid.New(),
		Status:     OutboxStatusProcessing,
		RetryCount: 4,
		MaxRetries: 5,
	}

	entry.MarkFailed("bus unavailable")

	assert.Equal(t, OutboxStatusDead, entry.Status)
	assert.Equal(t, 5, entry.RetryCount)
	assert.Equal(t, "bus unavailable", entry.LastError)
	assert.True(t, entry.IsDead())
}

func TestOutboxEntry_MarkFailed_ExponentialBackoff(t *testing.T) {
	entry := &OutboxEntry{
		ID:         uuid.New(),
		Status:     OutboxStatusProcessing,
		RetryCount: 0,
		MaxRetries: 5,
	}

	// Backoff doubles per attempt: 1s, 2s, 4s.
	entry.MarkFailed("attempt 1")
	assert.Equal(t, OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	require.NotNil(t, entry.NextRetryAt)
	backoff := time.Until(*entry.NextRetryAt)
	assert.True(t, backoff > 0 && backoff <= 2*time.Second)

	entry.Status = OutboxStatusProcessing
	entry.MarkFailed("attempt 2")
	assert.Equal(t, 2, entry.RetryCount)
	backoff = time.Until(*entry.NextRetryAt)
	assert.True(t, backoff > time.Second && backoff <= 3*time.Second)

	entry.Status = OutboxStatusProcessing
	entry.MarkFailed("attempt 3")
	assert.Equal(t, 3, entry.RetryCount)
	backoff = time.Until(*entry.NextRetryAt)
	assert.True(t, backoff > 3*time.Second && backoff <= 5*time.Second)
}
