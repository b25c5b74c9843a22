package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"bookvault/internal/api/dto"

	"github.com/redis/go-redis/v9"
)

// AnalyticsCache keeps the advanced-analytics payload per user in Redis so
// repeated dashboard loads skip the full snapshot read. Every book, favorite
// and session write invalidates the owner's entry. All methods are no-ops on
// a nil cache, which keeps Redis optional in tests and local runs.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewAnalyticsCache connects to Redis and verifies the connection.
func NewAnalyticsCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*AnalyticsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &AnalyticsCache{client: rdb, ttl: ttl, logger: logger}, nil
}

func analyticsKey(userID string) string {
	return fmt.Sprintf("analytics:user:%s", userID)
}

// Get returns the cached payload for a user, or (nil, false) on miss.
func (c *AnalyticsCache) Get(ctx context.Context, userID string) (*dto.AdvancedAnalyticsResponse, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, analyticsKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var payload dto.AdvancedAnalyticsResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("discarding undecodable analytics cache entry", "user_id", userID, "error", err)
		c.client.Del(ctx, analyticsKey(userID))
		return nil, false
	}
	return &payload, true
}

// Set stores the payload under the user's key with the configured TTL.
// Cache failures are logged, never surfaced: the payload was already computed.
func (c *AnalyticsCache) Set(ctx context.Context, userID string, payload *dto.AdvancedAnalyticsResponse) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("failed to encode analytics payload for cache", "user_id", userID, "error", err)
		return
	}
	if err := c.client.Set(ctx, analyticsKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache analytics payload", "user_id", userID, "error", err)
	}
}

// Invalidate drops the user's cached payload after any write that feeds it.
func (c *AnalyticsCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, analyticsKey(userID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate analytics cache", "user_id", userID, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *AnalyticsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
