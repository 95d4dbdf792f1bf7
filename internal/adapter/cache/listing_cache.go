package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const (
	keyProductsAll       = "storefront:catalog:products:all"
	keyProductsAvailable = "storefront:catalog:products:available"
	keyCategoriesAll     = "storefront:catalog:categories:all"
	keyCategoriesActive  = "storefront:catalog:categories:active"
)

var listingKeys = []string{keyProductsAll, keyProductsAvailable, keyCategoriesAll, keyCategoriesActive}

// ListingCache wraps a CatalogStore and caches the public listings in Redis.
// Single-row reads and the checkout batch lookup always go to the store, so
// prices used for orders are never served from cache. Every write through the
// wrapper drops the listings; Invalidate does the same for writes made
// elsewhere.
type ListingCache struct {
	usecase.CatalogStore
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewListingCache(store usecase.CatalogStore, rdb redis.UniversalClient, ttl time.Duration) *ListingCache {
	return &ListingCache{CatalogStore: store, rdb: rdb, ttl: ttl}
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, listingKeys...).Err()
}

func (c *ListingCache) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	key := keyProductsAll
	if onlyAvailable {
		key = keyProductsAvailable
	}
	return cached(ctx, c, key, func() ([]domain.Product, error) {
		return c.CatalogStore.ListProducts(ctx, onlyAvailable)
	})
}

func (c *ListingCache) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	key := keyCategoriesAll
	if onlyActive {
		key = keyCategoriesActive
	}
	return cached(ctx, c, key, func() ([]domain.Category, error) {
		return c.CatalogStore.ListCategories(ctx, onlyActive)
	})
}

// cached reads key, or loads and stores it. Redis failures degrade to the loader.
func cached[T any](ctx context.Context, c *ListingCache, key string, load func() ([]T, error)) ([]T, error) {
	log := logging.FromCtx(ctx)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jerr := json.Unmarshal(raw, &out); jerr == nil {
			return out, nil
		}
		log.Warn("listing cache: bad entry, reloading", "key", key)
	case !errors.Is(err, redis.Nil):
		log.Warn("listing cache: get failed", "key", key, "err", err)
	}

	out, err := load()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Warn("listing cache: set failed", "key", key, "err", err)
		}
	}
	return out, nil
}

func (c *ListingCache) drop(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		logging.FromCtx(ctx).Warn("listing cache: invalidate failed", "err", err)
	}
}

func (c *ListingCache) CreateProduct(ctx context.Context, p *domain.Product) error {
	defer c.drop(ctx)
	return c.CatalogStore.CreateProduct(ctx, p)
}

func (c *ListingCache) UpdateProduct(ctx context.Context, id string, patch usecase.Patch) error {
	defer c.drop(ctx)
	return c.CatalogStore.UpdateProduct(ctx, id, patch)
}

func (c *ListingCache) DeleteProduct(ctx context.Context, id string) error {
	defer c.drop(ctx)
	return c.CatalogStore.DeleteProduct(ctx, id)
}

func (c *ListingCache) DeleteProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	defer c.drop(ctx)
	return c.CatalogStore.DeleteProductsByCategory(ctx, categoryID)
}

func (c *ListingCache) SetProductSortOrder(ctx context.Context, id string, sortOrder int) error {
	defer c.drop(ctx)
	return c.CatalogStore.SetProductSortOrder(ctx, id, sortOrder)
}

func (c *ListingCache) CreateCategory(ctx context.Context, cat *domain.Category) error {
	defer c.drop(ctx)
	return c.CatalogStore.CreateCategory(ctx, cat)
}

func (c *ListingCache) UpdateCategory(ctx context.Context, id string, patch usecase.Patch) error {
	defer c.drop(ctx)
	return c.CatalogStore.UpdateCategory(ctx, id, patch)
}

func (c *ListingCache) DeleteCategory(ctx context.Context, id string) error {
	defer c.drop(ctx)
	return c.CatalogStore.DeleteCategory(ctx, id)
}

func (c *ListingCache) SetCategorySortOrder(ctx context.Context, id string, sortOrder int) error {
	defer c.drop(ctx)
	return c.CatalogStore.SetCategorySortOrder(ctx, id, sortOrder)
}

var _ usecase.CatalogStore = (*ListingCache)(nil)
