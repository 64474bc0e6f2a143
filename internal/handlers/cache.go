package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 5 * time.Minute
)

// invalidateSummaryCache drops the cached dashboard summary after any client
// or payment mutation. A nil client means caching is disabled.
func invalidateSummaryCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, summaryCacheKey).Err(); err != nil {
		slog.Error("failed to invalidate dashboard summary cache", "error", err)
	}
}
