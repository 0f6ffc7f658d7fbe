// Package rules loads matching tables (categories, synonyms, stop modifiers)
// from YAML and merges them over the built-in defaults.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruokahinta/backend/internal/usecase"
)

// Parse decodes YAML tables. Unknown fields are rejected so typos in rule
// files surface at startup.
func Parse(data []byte) (usecase.MatchingTables, error) {
	var tables usecase.MatchingTables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tables); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.MatchingTables{}, nil
		}
		return usecase.MatchingTables{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := validate(tables); err != nil {
		return usecase.MatchingTables{}, err
	}
	return tables, nil
}

// LoadFile reads a rules file and merges it over usecase.DefaultTables.
// An empty path returns the defaults.
func LoadFile(path string) (usecase.MatchingTables, error) {
	defaults := usecase.DefaultTables()
	if strings.TrimSpace(path) == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return usecase.MatchingTables{}, fmt.Errorf("read rules file: %w", err)
	}
	overrides, err := Parse(data)
	if err != nil {
		return usecase.MatchingTables{}, fmt.Errorf("%s: %w", path, err)
	}
	return defaults.Merge(overrides), nil
}

func validate(tables usecase.MatchingTables) error {
	for category, rule := range tables.Categories {
		if strings.TrimSpace(string(category)) == "" {
			return fmt.Errorf("category with empty name")
		}
		if len(rule.Triggers) == 0 && len(rule.Exclusions) == 0 {
			return fmt.Errorf("category %q has neither triggers nor exclusions", category)
		}
	}
	for word, synonyms := range tables.Synonyms {
		if strings.TrimSpace(word) == "" {
			return fmt.Errorf("synonym entry with empty key")
		}
		if len(synonyms) == 0 {
			return fmt.Errorf("synonym %q has no alternatives", word)
		}
	}
	return nil
}
