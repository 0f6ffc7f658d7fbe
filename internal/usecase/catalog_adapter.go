package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruokahinta/backend/internal/domain"
)

const defaultResultLimit = 25

// CatalogAdapter issues search terms against the external catalog. It rejects
// empty terms, caps the result size and converts every transport failure into
// domain.ErrCatalogUnavailable.
type CatalogAdapter struct {
	client       domain.CatalogClient
	defaultLimit int
}

// NewCatalogAdapter creates an adapter with a default per-query result cap
func NewCatalogAdapter(client domain.CatalogClient, defaultLimit int) *CatalogAdapter {
	if defaultLimit <= 0 {
		defaultLimit = defaultResultLimit
	}
	return &CatalogAdapter{
		client:       client,
		defaultLimit: defaultLimit,
	}
}

// Search runs one catalog query. Records get their Ordinal set to their
// position in the catalog response.
func (a *CatalogAdapter) Search(ctx context.Context, term domain.SearchTerm, limit int) ([]domain.CatalogRecord, error) {
	query := strings.TrimSpace(term.Text)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search term", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = a.defaultLimit
	}

	records, err := a.client.SearchProducts(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrCatalogUnavailable, query, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrCatalogUnavailable, query, err)
	}

	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]domain.CatalogRecord, len(records))
	for i, record := range records {
		record.Ordinal = i
		out[i] = record
	}
	return out, nil
}
