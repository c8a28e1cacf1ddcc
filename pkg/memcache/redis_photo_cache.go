package mem

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tripcraft:photo:"

// RedisURLCache shares resolved URLs between processes. Redis errors read as misses.
type RedisURLCache struct {
	client *redis.Client
}

func NewRedisURLCache(client *redis.Client) *RedisURLCache {
	return &RedisURLCache{client: client}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisURLCache) Get(ctx context.Context, key string) (string, bool) {
	url, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return url, true
}

func (r *RedisURLCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, url, ttl).Err(); err != nil {
		return fmt.Errorf("redis photo cache set: %w", err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (r *RedisURLCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisURLCache) Close() error {
	return r.client.Close()
}
