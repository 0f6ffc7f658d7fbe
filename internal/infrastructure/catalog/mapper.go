package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ruokahinta/backend/internal/domain"
)

// searchResponse is the catalog search payload
type searchResponse struct {
	Products []productDTO `json:"products"`
}

// productDTO is a product as the catalog serves it. Some catalogs send ids and
// prices as numbers, others as strings.
type productDTO struct {
	ID       flexString `json:"id"`
	Name     string     `json:"name"`
	Price    flexString `json:"price"`
	Category string     `json:"category"`
}

// flexString accepts a JSON string, number or null
type flexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
		return nil
	}
}

// MapToRecords converts catalog products to domain records, dropping entries
// without a name
func MapToRecords(products []productDTO) []domain.CatalogRecord {
	records := make([]domain.CatalogRecord, 0, len(products))
	for _, p := range products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		records = append(records, domain.CatalogRecord{
			ID:        strings.TrimSpace(string(p.ID)),
			Name:      name,
			PriceText: strings.TrimSpace(string(p.Price)),
			Category:  strings.TrimSpace(p.Category),
		})
	}
	return records
}
