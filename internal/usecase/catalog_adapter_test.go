package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ruokahinta/backend/internal/domain"
)

func TestCatalogAdapterSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty term without calling catalog", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		adapter := NewCatalogAdapter(catalog, 0)

		_, err := adapter.Search(ctx, domain.SearchTerm{Text: "  "}, 10)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if len(catalog.Queries()) != 0 {
			t.Error("catalog should not be called for empty term")
		}
	})

	t.Run("wraps transport errors", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		catalog.errs["riisi"] = errors.New("dial tcp: connection refused")
		adapter := NewCatalogAdapter(catalog, 0)

		_, err := adapter.Search(ctx, domain.SearchTerm{Text: "riisi"}, 10)
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, want ErrCatalogUnavailable", err)
		}
	})

	t.Run("uses default limit", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		adapter := NewCatalogAdapter(catalog, 0)

		if _, err := adapter.Search(ctx, domain.SearchTerm{Text: "riisi"}, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog.limits[0] != 25 {
			t.Errorf("limit = %d, want 25 (default)", catalog.limits[0])
		}
	})

	t.Run("caps results and records catalog order", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		catalog.products["riisi"] = []domain.CatalogRecord{
			record("1", "Riisi 1", "1 €"),
			record("2", "Riisi 2", "2 €"),
			record("3", "Riisi 3", "3 €"),
		}
		adapter := NewCatalogAdapter(catalog, 0)

		records, err := adapter.Search(ctx, domain.SearchTerm{Text: "riisi"}, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		for i, r := range records {
			if r.Ordinal != i {
				t.Errorf("records[%d].Ordinal = %d, want %d", i, r.Ordinal, i)
			}
		}
		if catalog.products["riisi"][1].Ordinal != 0 {
			t.Error("adapter mutated catalog records")
		}
	})

	t.Run("cancelled context is unavailable", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		adapter := NewCatalogAdapter(NewMockCatalogClient(), 0)

		_, err := adapter.Search(cancelled, domain.SearchTerm{Text: "riisi"}, 1)
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, want ErrCatalogUnavailable", err)
		}
	})
}
