package usecase

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ruokahinta/backend/internal/domain"
)

// RelevanceFilter rejects catalog records that share words with an ingredient
// but belong to a different product class ("rice crisps" for "rice").
//
// Filtering is conservative: a record is only rejected on a positive exclusion
// match, never for lacking a positive signal.
type RelevanceFilter struct {
	table  *CategoryTable
	logger *zap.Logger
}

// NewRelevanceFilter creates a filter over a compiled category table
func NewRelevanceFilter(table *CategoryTable, logger *zap.Logger) *RelevanceFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelevanceFilter{
		table:  table,
		logger: logger,
	}
}

// IsRelevant reports whether the record may be offered for an ingredient with
// the given category hint. Without a known hint only generic rules apply.
func (f *RelevanceFilter) IsRelevant(record domain.CatalogRecord, hint domain.Category) bool {
	excluded, rule, term := f.exclusion(record, hint)
	if excluded {
		f.logger.Debug("record excluded",
			zap.String("record", record.Name),
			zap.String("hint", hint.String()),
			zap.String("rule", rule.String()),
			zap.String("term", term),
		)
	}
	return !excluded
}

// exclusion returns the rule and term that excluded the record, if any
func (f *RelevanceFilter) exclusion(record domain.CatalogRecord, hint domain.Category) (bool, domain.Category, string) {
	words := splitWords(record.Name)
	if len(words) == 0 {
		return false, "", ""
	}
	joined := strings.Join(words, " ")

	for _, rule := range f.table.generic {
		if rule.category == hint {
			continue
		}
		if term, ok := firstMatch(words, joined, rule.exclusions); ok {
			return true, rule.category, term
		}
	}

	if rule, ok := f.table.rules[hint]; ok && !rule.generic {
		if term, ok := firstMatch(words, joined, rule.exclusions); ok {
			return true, rule.category, term
		}
	}

	return false, "", ""
}

func firstMatch(words []string, joined string, terms []string) (string, bool) {
	for _, term := range terms {
		if containsTerm(words, joined, term) {
			return term, true
		}
	}
	return "", false
}
