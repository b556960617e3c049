package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/betterchoicedev/checkout-api/internal/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: time.Minute,
	}
}

// RedisCache keys subscription lists by customer with a short jittered TTL.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	data, err := r.client.Get(ctx, cacheKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var subs []domain.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("unmarshal subscriptions failed: %w", err)
	}
	return subs, nil
}

func (r *RedisCache) Set(ctx context.Context, customerID string, subs []domain.Subscription) error {
	encoded, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("marshal subscriptions failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(15)) * time.Second
	if err := r.client.Set(ctx, cacheKey(customerID), encoded, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, customerID string) error {
	if err := r.client.Del(ctx, cacheKey(customerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(customerID string) string {
	return fmt.Sprintf("subs:%s", customerID)
}
