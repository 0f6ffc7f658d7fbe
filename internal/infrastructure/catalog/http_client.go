package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ruokahinta/backend/internal/domain"
)

const (
	defaultRequestsPerSecond = 10
	defaultBurst             = 20
	defaultHTTPTimeout       = 10 * time.Second
	defaultMaxRetries        = 3
	searchPath               = "/v1/products/search"
)

// HTTPClientConfig holds configuration for the HTTP catalog client
type HTTPClientConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int
}

// HTTPClient searches a remote product catalog over HTTP
type HTTPClient struct {
	client      *resty.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewHTTPClient creates a new catalog client. Zero config values fall back to
// defaults.
func NewHTTPClient(config HTTPClientConfig, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := config.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ruokahinta/1.0")
	if config.APIKey != "" {
		client.SetHeader("X-API-Key", config.APIKey)
	}

	return &HTTPClient{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries:  maxRetries,
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// exponentialBackoff returns the delay before retry attempt n: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchProducts implements domain.CatalogClient. A 404 means the catalog has
// no products for the query and yields an empty result. Transport errors, 429
// and 5xx responses are retried.
func (c *HTTPClient) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	logger := c.logger.With(zap.String("query", query), zap.Int("limit", limit))

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogUnavailable, err)
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			SetQueryParam("limit", strconv.Itoa(limit)).
			Get(searchPath)

		retry := false
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			retry = true
		case resp.StatusCode() == http.StatusNotFound:
			logger.Debug("catalog has no products")
			return []domain.CatalogRecord{}, nil
		case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode())
			retry = true
		case resp.StatusCode() != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrCatalogUnavailable, resp.StatusCode(), resp.String())
		}

		if retry {
			logger.Warn("catalog request failed",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if attempt == c.maxRetries {
				break
			}
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, ctx.Err())
			}
			continue
		}

		var payload searchResponse
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrCatalogUnavailable, err)
		}

		records := MapToRecords(payload.Products)
		logger.Debug("catalog search done", zap.Int("records", len(records)))
		return records, nil
	}

	logger.Error("all catalog retries failed", zap.Error(lastErr))
	return nil, lastErr
}
