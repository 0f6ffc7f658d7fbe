package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ruokahinta/backend/internal/domain"
)

const (
	defaultCacheTTL = 6 * time.Hour
	// upper bound for an upstream call that outlives its first caller
	detachedCallTimeout = 30 * time.Second
)

// CachedCatalog decorates a catalog with a shared result cache. Concurrent
// identical queries share one upstream call. Failed queries are not cached.
type CachedCatalog struct {
	next   domain.CatalogClient
	cache  domain.CacheRepository
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedCatalog wraps next with cache
func NewCachedCatalog(next domain.CatalogClient, cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey builds the cache key for a query
func cacheKey(query string, limit int) string {
	return fmt.Sprintf("catalog:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
}

// SearchProducts implements domain.CatalogClient
func (c *CachedCatalog) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	key := cacheKey(query, limit)

	if records, ok := c.fromCache(ctx, key); ok {
		return records, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// detached so one caller's cancellation does not fail the others
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detachedCallTimeout)
		defer cancel()

		records, err := c.next.SearchProducts(callCtx, query, limit)
		if err != nil {
			return nil, err
		}
		c.store(callCtx, key, records)
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		records := res.Val.([]domain.CatalogRecord)
		return append([]domain.CatalogRecord(nil), records...), nil
	}
}

func (c *CachedCatalog) fromCache(ctx context.Context, key string) ([]domain.CatalogRecord, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var records []domain.CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	c.logger.Debug("cache hit", zap.String("key", key), zap.Int("records", len(records)))
	return records, true
}

func (c *CachedCatalog) store(ctx context.Context, key string, records []domain.CatalogRecord) {
	if records == nil {
		records = []domain.CatalogRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
