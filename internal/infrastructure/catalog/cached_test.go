package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruokahinta/backend/internal/domain"
	"github.com/ruokahinta/backend/internal/infrastructure/cache"
)

// countingCatalog counts upstream calls and can block until released
type countingCatalog struct {
	calls   atomic.Int32
	release chan struct{}
	records []domain.CatalogRecord
	err     error
}

func (c *countingCatalog) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

// failingCache is a CacheRepository whose backend is down
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, domain.ErrCacheUnavailable
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return domain.ErrCacheUnavailable
}

func (failingCache) Delete(context.Context, string) error { return nil }

func (failingCache) Exists(context.Context, string) (bool, error) { return false, nil }

func newMemoryCache(t *testing.T) *cache.MemoryCache {
	c := cache.NewMemoryCache(time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCachedCatalog_CachesResults(t *testing.T) {
	upstream := &countingCatalog{records: []domain.CatalogRecord{{ID: "1", Name: "Riisi", PriceText: "0,99 €"}}}
	store := newMemoryCache(t)
	cached := NewCachedCatalog(upstream, store, time.Minute, nil)
	ctx := context.Background()

	first, err := cached.SearchProducts(ctx, "riisi", 25)
	require.NoError(t, err)
	second, err := cached.SearchProducts(ctx, " RIISI ", 25)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), upstream.calls.Load())

	exists, err := store.Exists(ctx, "catalog:riisi:25")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = cached.SearchProducts(ctx, "riisi", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), upstream.calls.Load(), "different limit is a different key")
}

func TestCachedCatalog_CachesEmptyResults(t *testing.T) {
	upstream := &countingCatalog{}
	cached := NewCachedCatalog(upstream, newMemoryCache(t), time.Minute, nil)

	for i := 0; i < 2; i++ {
		records, err := cached.SearchProducts(context.Background(), "sahrami", 25)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachedCatalog_DoesNotCacheErrors(t *testing.T) {
	upstream := &countingCatalog{err: errors.New("boom")}
	cached := NewCachedCatalog(upstream, newMemoryCache(t), time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := cached.SearchProducts(context.Background(), "riisi", 25)
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), upstream.calls.Load())
}

func TestCachedCatalog_CoalescesConcurrentQueries(t *testing.T) {
	upstream := &countingCatalog{
		release: make(chan struct{}),
		records: []domain.CatalogRecord{{ID: "1", Name: "Voi"}},
	}
	cached := NewCachedCatalog(upstream, newMemoryCache(t), time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := cached.SearchProducts(context.Background(), "voi", 25)
			assert.NoError(t, err)
			assert.Len(t, records, 1)
		}()
	}

	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(upstream.release)
	wg.Wait()

	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachedCatalog_CacheFailureFallsThrough(t *testing.T) {
	upstream := &countingCatalog{records: []domain.CatalogRecord{{ID: "1", Name: "Voi"}}}
	cached := NewCachedCatalog(upstream, failingCache{}, time.Minute, nil)

	records, err := cached.SearchProducts(context.Background(), "voi", 25)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCachedCatalog_CorruptEntry(t *testing.T) {
	store := newMemoryCache(t)
	require.NoError(t, store.Set(context.Background(), "catalog:voi:25", []byte("not json"), time.Minute))
	upstream := &countingCatalog{records: []domain.CatalogRecord{{ID: "1", Name: "Voi"}}}
	cached := NewCachedCatalog(upstream, store, time.Minute, nil)

	records, err := cached.SearchProducts(context.Background(), "voi", 25)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachedCatalog_CallerCancellation(t *testing.T) {
	upstream := &countingCatalog{release: make(chan struct{})}
	cached := NewCachedCatalog(upstream, newMemoryCache(t), time.Minute, nil)
	defer close(upstream.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cached.SearchProducts(ctx, "voi", 25)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
