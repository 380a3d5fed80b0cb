package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopcraft/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore persists shopping carts in Redis. Carts are ephemeral by
// nature, so they live outside the relational store with a TTL that resets
// on every write; an untouched cart eventually expires on its own.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store backed by an existing Redis client
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:",
		ttl:       ttl,
	}
}

// Get returns the user's cart, or nil if none exists
func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart order.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return &cart, nil
}

// Save stores the cart and resets its expiration
func (s *RedisCartStore) Save(ctx context.Context, cart *order.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key(cart.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Delete removes the user's cart
func (s *RedisCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) key(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

// Ensure RedisCartStore implements CartStore
var _ order.CartStore = (*RedisCartStore)(nil)
