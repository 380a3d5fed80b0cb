package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	designapp "github.com/shopcraft/backend/internal/application/design"
	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/redis/go-redis/v9"
)

// RedisQuoteCache caches price estimates in Redis so identical estimate
// requests across instances share one computed quote
type RedisQuoteCache struct {
	client *redis.Client
}

// NewRedisQuoteCache creates a quote cache backed by an existing Redis client
func NewRedisQuoteCache(client *redis.Client) *RedisQuoteCache {
	return &RedisQuoteCache{client: client}
}

// Get returns a cached pricing result, or nil on a miss
func (c *RedisQuoteCache) Get(ctx context.Context, key string) (*strategy.PricingResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached quote: %w", err)
	}

	var result strategy.PricingResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten
		return nil, nil
	}

	return &result, nil
}

// Set stores a pricing result with the given TTL
func (c *RedisQuoteCache) Set(ctx context.Context, key string, result strategy.PricingResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}

	return nil
}

// Ensure RedisQuoteCache implements QuoteCache
var _ designapp.QuoteCache = (*RedisQuoteCache)(nil)
