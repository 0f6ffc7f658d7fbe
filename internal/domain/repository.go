package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient is the external product catalog. It is a black-box keyword
// search and must be safe for concurrent use.
type CatalogClient interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]CatalogRecord, error)
}
