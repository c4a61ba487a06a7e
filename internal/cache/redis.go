package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/skyfare/skyfare/config"
)

// RedisCache memoizes computed available-seat counts per flight. The cache
// is advisory: the booking write path never consults it, so a stale or
// unreachable cache can only affect the availability query endpoint.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// NewRedisCacheWithClient is used by tests to inject a mock client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// GetAvailability returns the cached seat count for a flight. The second
// return value is false on a miss.
func (c *RedisCache) GetAvailability(ctx context.Context, flightID uuid.UUID) (int, bool, error) {
	val, err := c.client.Get(ctx, availabilityKey(flightID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	seats, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt availability entry for flight %s: %w", flightID, err)
	}
	return seats, true, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, flightID uuid.UUID, seats int) error {
	return c.client.Set(ctx, availabilityKey(flightID), strconv.Itoa(seats), c.ttl).Err()
}

// InvalidateAvailability drops the entry. Callers invoke it after a change
// to the confirmed-seat count has committed, never before.
func (c *RedisCache) InvalidateAvailability(ctx context.Context, flightID uuid.UUID) error {
	return c.client.Del(ctx, availabilityKey(flightID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func availabilityKey(flightID uuid.UUID) string {
	return fmt.Sprintf("flight_availability_%s", flightID)
}
