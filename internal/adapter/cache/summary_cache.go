package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisSummaryCache holds rendered order summaries keyed by order id.
type RedisSummaryCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisSummaryCache(rdb redis.UniversalClient, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(orderID string) string { return "storefront:order:summary:" + orderID }

func (c *RedisSummaryCache) SetSummary(ctx context.Context, orderID, text string) error {
	return c.rdb.Set(ctx, summaryKey(orderID), text, c.ttl).Err()
}

func (c *RedisSummaryCache) GetSummary(ctx context.Context, orderID string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, summaryKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

var _ usecase.SummaryCache = (*RedisSummaryCache)(nil)
