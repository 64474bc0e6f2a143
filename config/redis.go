// payment-reminder/config/redis.go

package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to Redis if addr is set. A nil return with no error means
// caching is disabled; callers must tolerate a nil client.
func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, dashboard caching disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	slog.Info("connected to redis", "addr", addr)
	return rdb, nil
}
