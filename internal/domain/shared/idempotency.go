package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have been handled so that
// redelivered events are not processed twice
type IdempotencyStore interface {
	// MarkProcessed records an event ID with the given TTL. The boolean
	// is true when the ID was not seen before, false on a duplicate.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}

// IdempotencyConfig controls duplicate-event suppression
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. Once it
	// expires the same ID would be handled again.
	TTL time.Duration

	// Enabled turns the duplicate check on or off
	Enabled bool
}

// DefaultIdempotencyConfig returns the standard settings: checking on,
// IDs remembered for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
