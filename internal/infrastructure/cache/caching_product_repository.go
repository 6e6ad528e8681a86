// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/feature/products/usecase"
	"marketplace_backend/internal/pagination"
)

// CachingProductRepository decorates a product repository with Redis caching
// for its page queries. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository. Every mutation
// invalidates the whole namespace, so pages never serve stale rows.
type CachingProductRepository struct {
	inner     usecase.ProductRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingProductRepositoryがProductRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository decorates a product repository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "products".
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cacheKey generates a cache key for one page query.
func (c *CachingProductRepository) cacheKey(query string, req pagination.PageRequest) string {
	return fmt.Sprintf("%s:%s:p%d:s%d:%s_%s",
		c.namespace,
		safe(query),
		req.Page,
		req.Size,
		safe(req.SortBy),
		req.SortDir,
	)
}

// cachedPage serves a page query from Redis, falling back to the database.
func (c *CachingProductRepository) cachedPage(
	ctx context.Context,
	key string,
	fetch func(context.Context) (pagination.Page[entity.Product], error),
) (pagination.Page[entity.Product], error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return fetch(ctx)
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out pagination.Page[entity.Product]
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := fetch(ctx)
	if err != nil {
		return pagination.Page[entity.Product]{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// invalidate drops every cached page after a mutation (best effort).
func (c *CachingProductRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingProductRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

// Create inserts a product and invalidates cached pages.
func (c *CachingProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update saves a product and invalidates cached pages.
func (c *CachingProductRepository) Update(ctx context.Context, p *entity.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes a product and invalidates cached pages.
func (c *CachingProductRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// InvalidatePages drops every cached product page (best effort). The user and
// category stores null product references inside their own delete
// transactions, which bypasses this decorator, so their usecases call this
// after the commit.
func (c *CachingProductRepository) InvalidatePages(ctx context.Context) {
	c.invalidate(ctx)
}

// FindByID is served straight from the database; single-row lookups are cheap
// and keeping them uncached avoids stale reads right after a mutation.
func (c *CachingProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	return c.inner.FindByID(ctx, id)
}

// FindPage retrieves a page of all products, checking cache first.
func (c *CachingProductRepository) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey("all", req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.FindPage(ctx, req)
	})
}

// FindActivePage retrieves a page of active products, checking cache first.
func (c *CachingProductRepository) FindActivePage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey("active", req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.FindActivePage(ctx, req)
	})
}

// FindByCategoryPage retrieves a page of category products, checking cache first.
func (c *CachingProductRepository) FindByCategoryPage(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey(fmt.Sprintf("category:%d", categoryID), req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.FindByCategoryPage(ctx, categoryID, req)
	})
}

// FindBySellerPage retrieves a page of seller products, checking cache first.
func (c *CachingProductRepository) FindBySellerPage(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey(fmt.Sprintf("seller:%d", sellerID), req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.FindBySellerPage(ctx, sellerID, req)
	})
}

// SearchPage retrieves a page of keyword matches, checking cache first.
func (c *CachingProductRepository) SearchPage(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey("search:"+keyword, req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.SearchPage(ctx, keyword, req)
	})
}

// FindByPriceRangePage retrieves a page of products in a price range, checking cache first.
func (c *CachingProductRepository) FindByPriceRangePage(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	key := c.cacheKey(fmt.Sprintf("price:%v-%v", minPrice, maxPrice), req)
	return c.cachedPage(ctx, key, func(ctx context.Context) (pagination.Page[entity.Product], error) {
		return c.inner.FindByPriceRangePage(ctx, minPrice, maxPrice, req)
	})
}
