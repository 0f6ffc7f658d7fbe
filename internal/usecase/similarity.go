package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Similarity scores how alike two strings are, 0 = disjoint, 1 = identical
type Similarity interface {
	Similarity(a, b string) float64
}

// SimilarityFunc adapts a plain function to Similarity
type SimilarityFunc func(a, b string) float64

// Similarity calls f(a, b)
func (f SimilarityFunc) Similarity(a, b string) float64 {
	return f(a, b)
}

// Similarity algorithm names accepted by NewSimilarity
const (
	SimilarityLevenshtein = "levenshtein"
	SimilarityTokenSet    = "token_set"
)

// NewSimilarity returns the named similarity algorithm
func NewSimilarity(name string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SimilarityLevenshtein:
		return LevenshteinSimilarity{}, nil
	case SimilarityTokenSet:
		return TokenSetSimilarity{}, nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm: %q", name)
	}
}

// LevenshteinSimilarity is the edit-distance ratio 1 - distance/maxLen over runes
type LevenshteinSimilarity struct{}

// Similarity implements Similarity
func (LevenshteinSimilarity) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return clamp01(levenshtein.Similarity(a, b, nil))
}

// TokenSetSimilarity compares the sorted shared words of both strings against
// each string's sorted remainder, so word order and extra words in product
// names ("Risella Puuroriisi 1kg") weigh less than in a plain edit ratio.
type TokenSetSimilarity struct{}

// Similarity implements Similarity
func (TokenSetSimilarity) Similarity(a, b string) float64 {
	wordsA := uniqueSorted(strings.Fields(a))
	wordsB := uniqueSorted(strings.Fields(b))
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	inB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		inB[w] = true
	}
	var shared, onlyA, onlyB []string
	for _, w := range wordsA {
		if inB[w] {
			shared = append(shared, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	inA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		inA[w] = true
	}
	for _, w := range wordsB {
		if !inA[w] {
			onlyB = append(onlyB, w)
		}
	}

	base := strings.Join(shared, " ")
	left := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	right := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	lev := LevenshteinSimilarity{}
	best := lev.Similarity(left, right)
	if base != "" {
		best = max(best, lev.Similarity(base, left), lev.Similarity(base, right))
	}
	return clamp01(best)
}

func uniqueSorted(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
