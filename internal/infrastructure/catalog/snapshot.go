package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ruokahinta/backend/internal/domain"
)

// SnapshotCatalog is an in-memory catalog loaded from a JSON export. It uses
// the same ordering as SQLCatalog and is read-only after construction.
type SnapshotCatalog struct {
	records []domain.CatalogRecord
	folded  []string
}

// foldName is the comparison form of names and queries: NFC, trimmed, lowercase
func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// NewSnapshotCatalog creates a catalog over records
func NewSnapshotCatalog(records []domain.CatalogRecord) *SnapshotCatalog {
	c := &SnapshotCatalog{
		records: make([]domain.CatalogRecord, 0, len(records)),
		folded:  make([]string, 0, len(records)),
	}
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" || utf8.RuneCountInString(r.Name) >= maxNameLength {
			continue
		}
		c.records = append(c.records, r)
		c.folded = append(c.folded, foldName(r.Name))
	}
	return c
}

// LoadSnapshot reads a JSON file holding either an array of products or a
// search response object {"products": [...]}
func LoadSnapshot(path string) (*SnapshotCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot JSON
func ParseSnapshot(data []byte) (*SnapshotCatalog, error) {
	var products []productDTO
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var payload searchResponse
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		products = payload.Products
	} else if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return NewSnapshotCatalog(MapToRecords(products)), nil
}

// Len returns the number of records
func (c *SnapshotCatalog) Len() int {
	return len(c.records)
}

// SearchProducts implements domain.CatalogClient
func (c *SnapshotCatalog) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	term := foldName(query)

	type hit struct {
		rank  int
		index int
	}
	var hits []hit
	for i, name := range c.folded {
		switch {
		case name == term:
			hits = append(hits, hit{0, i})
		case strings.HasPrefix(name, term):
			hits = append(hits, hit{1, i})
		case strings.Contains(name, term):
			hits = append(hits, hit{2, i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		a, b := c.records[hits[i].index], c.records[hits[j].index]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	records := make([]domain.CatalogRecord, len(hits))
	for i, h := range hits {
		records[i] = c.records[h.index]
	}
	return records, nil
}
