package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func Connect(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func Set(ctx context.Context, conn *redis.Client, key, value string) error {
	return conn.Set(ctx, key, value, 0).Err()
}

func SetWithExpiry(ctx context.Context, conn *redis.Client, key, value string, ttl time.Duration) error {
	return conn.Set(ctx, key, value, ttl).Err()
}

func Get(ctx context.Context, conn *redis.Client, key string) (string, error) {
	return conn.Get(ctx, key).Result()
}

func Del(ctx context.Context, conn *redis.Client, key string) error {
	return conn.Del(ctx, key).Err()
}
