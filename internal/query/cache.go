package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cashpro-ledger/internal/domain/account"
)

// LeaderboardCache keeps recent top-N results in Redis. Leaderboard reads
// tolerate a short staleness window, so entries simply expire; no
// invalidation on mutation is needed.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewLeaderboardCache creates a cache over an existing Redis client
func NewLeaderboardCache(logger *slog.Logger, client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func leaderboardKey(currency string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", currency, limit)
}

// Get returns the cached rows and whether the key was present. Cache faults
// are logged and reported as misses so reads fall through to the store.
func (c *LeaderboardCache) Get(ctx context.Context, currency string, limit int) ([]account.Ranked, bool) {
	payload, err := c.client.Get(ctx, leaderboardKey(currency, limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Leaderboard cache read failed", "currency", currency, "error", err)
		}
		return nil, false
	}

	var ranked []account.Ranked
	if err := json.Unmarshal(payload, &ranked); err != nil {
		c.logger.Warn("Leaderboard cache holds malformed payload", "currency", currency, "error", err)
		return nil, false
	}

	return ranked, true
}

// Set stores the rows under the currency/limit key with the cache TTL
func (c *LeaderboardCache) Set(ctx context.Context, currency string, limit int, ranked []account.Ranked) {
	payload, err := json.Marshal(ranked)
	if err != nil {
		c.logger.Warn("Failed to marshal leaderboard for cache", "currency", currency, "error", err)
		return
	}

	if err := c.client.Set(ctx, leaderboardKey(currency, limit), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Leaderboard cache write failed", "currency", currency, "error", err)
	}
}
