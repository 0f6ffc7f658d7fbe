package usecase

import (
	"sort"
	"strings"

	"github.com/ruokahinta/backend/internal/domain"
)

type compiledRule struct {
	category   domain.Category
	group      string
	triggers   []string
	exclusions []string
	aliases    map[string]bool
	generic    bool
}

// CategoryTable is the immutable, normalized form of the category rules.
// It is built once and shared read-only between resolutions.
type CategoryTable struct {
	rules   map[domain.Category]*compiledRule
	order   []domain.Category
	generic []*compiledRule
}

// NewCategoryTable compiles a rule table. Keys are iterated in sorted order so
// inference is deterministic.
func NewCategoryTable(rules map[domain.Category]CategoryRule) *CategoryTable {
	table := &CategoryTable{
		rules: make(map[domain.Category]*compiledRule, len(rules)),
	}

	for key, rule := range rules {
		category := domain.NormalizeCategory(string(key))
		if category == "" {
			continue
		}
		compiled := &compiledRule{
			category:   category,
			group:      normalizeText(rule.Group),
			triggers:   normalizeList(rule.Triggers),
			exclusions: normalizeList(rule.Exclusions),
			aliases:    make(map[string]bool, len(rule.Aliases)+1),
			generic:    rule.Generic,
		}
		compiled.aliases[string(category)] = true
		for _, alias := range rule.Aliases {
			compiled.aliases[normalizeText(alias)] = true
		}
		table.rules[category] = compiled
		table.order = append(table.order, category)
	}

	sort.Slice(table.order, func(i, j int) bool { return table.order[i] < table.order[j] })
	for _, category := range table.order {
		if table.rules[category].generic {
			table.generic = append(table.generic, table.rules[category])
		}
	}
	return table
}

// Known reports whether a rule exists for the category
func (t *CategoryTable) Known(category domain.Category) bool {
	_, ok := t.rules[category]
	return ok
}

// Categories returns the known category keys in sorted order
func (t *CategoryTable) Categories() []domain.Category {
	return append([]domain.Category(nil), t.order...)
}

// Infer finds the category whose trigger words occur in text. Multi-word
// triggers win over single words, and words are scanned from the end because
// the head noun comes last ("olive oil", "basmati rice", "puuroriisi").
func (t *CategoryTable) Infer(text string) domain.Category {
	words := splitWords(text)
	if len(words) == 0 {
		return ""
	}
	joined := strings.Join(words, " ")

	for _, category := range t.order {
		for _, trigger := range t.rules[category].triggers {
			if strings.Contains(trigger, " ") && strings.Contains(joined, trigger) {
				return category
			}
		}
	}

	for i := len(words) - 1; i >= 0; i-- {
		for _, category := range t.order {
			for _, trigger := range t.rules[category].triggers {
				if !strings.Contains(trigger, " ") && headMatch(words[i], trigger) {
					return category
				}
			}
		}
	}
	return ""
}

// RecordCategory resolves a catalog record to a known category, first via the
// catalog's own category label and then via trigger words in the name.
func (t *CategoryTable) RecordCategory(record domain.CatalogRecord) domain.Category {
	if label := normalizeText(record.Category); label != "" {
		for _, category := range t.order {
			if t.rules[category].aliases[label] {
				return category
			}
		}
	}
	return t.Infer(record.Name)
}

// Matches reports whether a record belongs to the expected category or to the
// same group. A catalog label equal to the group name also counts.
func (t *CategoryTable) Matches(expected domain.Category, record domain.CatalogRecord) bool {
	rule, ok := t.rules[expected]
	if !ok {
		return false
	}
	actual := t.RecordCategory(record)
	if actual == expected {
		return true
	}
	if rule.group == "" {
		return false
	}
	if other, ok := t.rules[actual]; ok && other.group == rule.group {
		return true
	}
	return normalizeText(record.Category) == rule.group
}
