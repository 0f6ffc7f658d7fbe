// Package bootstrap assembles the catalog, cache and resolver from
// configuration. It is shared by the HTTP server and the pricer CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruokahinta/backend/config"
	"github.com/ruokahinta/backend/internal/domain"
	"github.com/ruokahinta/backend/internal/infrastructure/cache"
	"github.com/ruokahinta/backend/internal/infrastructure/catalog"
	"github.com/ruokahinta/backend/internal/infrastructure/rules"
	"github.com/ruokahinta/backend/internal/usecase"
)

// Components are the assembled application dependencies
type Components struct {
	Catalog  domain.CatalogClient
	Resolver *usecase.IngredientResolver
	closers  []func() error
}

// Close releases databases, caches and background goroutines in reverse
// construction order.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Build wires the catalog backend, the optional query cache and the resolver.
// recorder may be nil.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, recorder usecase.Recorder) (*Components, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Components{}

	client, err := c.newCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	store, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		c.Close()
		return nil, err
	}
	if store != nil {
		client = catalog.NewCachedCatalog(client, store, cfg.Cache.TTL, logger.Named("catalog.cache"))
	}

	tables, err := rules.LoadFile(cfg.Matching.RulesFile)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("load matching rules: %w", err)
	}
	resolverConfig, err := cfg.Matching.ResolverConfig(tables)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Catalog = client
	c.Resolver = usecase.NewIngredientResolver(client, resolverConfig, logger.Named("resolver"), recorder)

	logger.Info("components ready",
		zap.String("catalog", cfg.Catalog.Type),
		zap.String("cache", cfg.Cache.Type),
		zap.String("similarity", cfg.Matching.Similarity),
		zap.Int("concurrency", cfg.Matching.Concurrency),
	)
	return c, nil
}

func (c *Components) newCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (domain.CatalogClient, error) {
	switch cfg.Type {
	case config.CatalogHTTP:
		return catalog.NewHTTPClient(catalog.HTTPClientConfig{
			BaseURL:           cfg.BaseURL,
			APIKey:            cfg.APIKey,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Timeout:           cfg.Timeout,
			MaxRetries:        cfg.MaxRetries,
		}, logger.Named("catalog.http")), nil
	case config.CatalogPostgres, config.CatalogSQLite:
		db, err := catalog.OpenSQL(ctx, cfg.Type, cfg.DSN)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		return catalog.NewSQLCatalog(db, cfg.Type, logger.Named("catalog.sql")), nil
	case config.CatalogSnapshot:
		snapshot, err := catalog.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		logger.Info("snapshot catalog loaded",
			zap.String("path", cfg.SnapshotPath),
			zap.Int("products", snapshot.Len()),
		)
		return snapshot, nil
	default:
		return nil, fmt.Errorf("unknown catalog type: %s", cfg.Type)
	}
}

func (c *Components) newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "", config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		store := cache.NewMemoryCache(0)
		c.closers = append(c.closers, store.Close)
		return store, nil
	case config.CacheRedis:
		store, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
