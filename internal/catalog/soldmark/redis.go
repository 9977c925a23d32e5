// Package soldmark persists the id -> sold projection the availability engine
// consumes. The projection is deliberately kept apart from the product records:
// marking a unit sold never rewrites catalog data, it only flips a flag here.
package soldmark

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKey = "storefront:sold-marks"

// RedisStore keeps sold marks in a Redis hash so every storefront instance
// sees the same projection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed sold-mark store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Mark flags the product's single unit as sold.
func (s *RedisStore) Mark(ctx context.Context, productID string) error {
	if err := s.client.HSet(ctx, redisKey, productID, "1").Err(); err != nil {
		return fmt.Errorf("failed to mark product sold: %w", err)
	}
	return nil
}

// Unmark clears the sold flag, e.g. after a cancelled sale.
func (s *RedisStore) Unmark(ctx context.Context, productID string) error {
	if err := s.client.HDel(ctx, redisKey, productID).Err(); err != nil {
		return fmt.Errorf("failed to unmark product: %w", err)
	}
	return nil
}

// IsSold reports whether the product has been marked sold.
func (s *RedisStore) IsSold(ctx context.Context, productID string) (bool, error) {
	sold, err := s.client.HExists(ctx, redisKey, productID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read sold mark: %w", err)
	}
	return sold, nil
}

// Map returns the sold projection for the given product ids. Products without
// a mark are simply absent from the result, matching the engine's nil-tolerant
// map lookup.
func (s *RedisStore) Map(ctx context.Context, productIDs []string) (map[string]bool, error) {
	marks := make(map[string]bool, len(productIDs))
	if len(productIDs) == 0 {
		return marks, nil
	}

	values, err := s.client.HMGet(ctx, redisKey, productIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load sold marks: %w", err)
	}
	for i, v := range values {
		if v != nil {
			marks[productIDs[i]] = true
		}
	}
	return marks, nil
}
