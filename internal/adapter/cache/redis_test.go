package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("STOREFRONT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOREFRONT_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestIdempotencyStore(t *testing.T) {
	rdb := redisClient(t)
	s := NewRedisIdempotencyStore(rdb, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()

	ok, err := s.TryLock(ctx, "checkout", key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TryLock(ctx, "checkout", key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := s.Recall(ctx, "checkout", key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Remember(ctx, "checkout", key, `{"order_id":"o1"}`))
	v, found, err := s.Recall(ctx, "checkout", key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"order_id":"o1"}`, v)

	require.NoError(t, s.Release(ctx, "checkout", key))
	ok, err = s.TryLock(ctx, "checkout", key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSummaryCache(t *testing.T) {
	rdb := redisClient(t)
	c := NewRedisSummaryCache(rdb, time.Minute)
	ctx := context.Background()
	id := uuid.NewString()

	_, ok, err := c.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetSummary(ctx, id, "TOTAL: R$ 31.00"))
	v, ok, err := c.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TOTAL: R$ 31.00", v)
}

type countingCatalog struct {
	usecase.CatalogStore
	lists    int
	products []domain.Product
}

func (c *countingCatalog) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	c.lists++
	return c.products, nil
}

func (c *countingCatalog) DeleteProduct(ctx context.Context, id string) error { return nil }

func TestListingCache_ServesAndInvalidates(t *testing.T) {
	rdb := redisClient(t)
	inner := &countingCatalog{products: []domain.Product{{ID: "p1", Name: "Bolo", Price: decimal.RequireFromString("15.50")}}}
	c := NewListingCache(inner, rdb, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx))

	first, err := c.ListProducts(ctx, true)
	require.NoError(t, err)
	second, err := c.ListProducts(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.lists)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.True(t, second[0].Price.Equal(decimal.RequireFromString("15.50")))

	require.NoError(t, c.DeleteProduct(ctx, "p1"))
	_, err = c.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.lists)
}
