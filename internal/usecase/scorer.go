package usecase

import (
	"strings"

	"github.com/ruokahinta/backend/internal/domain"
)

// Scoring weights. Components are each in [0,1].
const (
	weightExactWord   = 0.5 // fraction of term words found as whole words
	weightSubstring   = 0.3 // full term phrase is a substring of the name
	weightSimilarity  = 0.2 // fuzzy similarity of term and name
	categoryBoost     = 0.1 // record category matches the expected category
	defaultLexicalMin = 0.6 // similarity alone must reach this to count as overlap
)

// ScorerConfig holds configuration for the scorer
type ScorerConfig struct {
	// LexicalFloor is the similarity a candidate needs when it shares no whole
	// word and no substring with the term.
	LexicalFloor float64
}

// Scorer computes the weighted relevance of a catalog record for a search term
type Scorer struct {
	similarity   Similarity
	categories   *CategoryTable
	lexicalFloor float64
}

// NewScorer creates a scorer. A nil similarity defaults to Levenshtein.
func NewScorer(similarity Similarity, categories *CategoryTable, config ScorerConfig) *Scorer {
	if similarity == nil {
		similarity = LevenshteinSimilarity{}
	}
	floor := config.LexicalFloor
	if floor <= 0 {
		floor = defaultLexicalMin
	}
	return &Scorer{
		similarity:   similarity,
		categories:   categories,
		lexicalFloor: floor,
	}
}

// Score returns the relevance score in [0,1] and its components.
// expected is the ingredient's category; empty disables the category boost.
func (s *Scorer) Score(term domain.SearchTerm, record domain.CatalogRecord, expected domain.Category) (float64, domain.ScoreBreakdown) {
	termWords := splitWords(term.Text)
	nameWords := splitWords(record.Name)
	if len(termWords) == 0 || len(nameWords) == 0 {
		return 0, domain.ScoreBreakdown{}
	}

	termPhrase := strings.Join(termWords, " ")
	namePhrase := strings.Join(nameWords, " ")

	var breakdown domain.ScoreBreakdown
	breakdown.ExactWord = wordCoverage(termWords, nameWords)
	if strings.Contains(namePhrase, termPhrase) {
		breakdown.Substring = 1
	}
	breakdown.Similarity = clamp01(s.similarity.Similarity(termPhrase, namePhrase))
	if expected != "" && s.categories != nil && s.categories.Matches(expected, record) {
		breakdown.CategoryBoost = categoryBoost
	}

	score := breakdown.ExactWord*weightExactWord +
		breakdown.Substring*weightSubstring +
		breakdown.Similarity*weightSimilarity +
		breakdown.CategoryBoost

	return clamp01(score), breakdown
}

// HasLexicalOverlap reports whether the breakdown shows any real overlap
// between term and record. Category boost alone never counts.
func (s *Scorer) HasLexicalOverlap(breakdown domain.ScoreBreakdown) bool {
	return breakdown.ExactWord > 0 || breakdown.Substring > 0 || breakdown.Similarity >= s.lexicalFloor
}

// wordCoverage is the fraction of distinct term words present in the name
func wordCoverage(termWords, nameWords []string) float64 {
	inName := make(map[string]bool, len(nameWords))
	for _, w := range nameWords {
		inName[w] = true
	}
	seen := make(map[string]bool, len(termWords))
	matched := 0
	for _, w := range termWords {
		if seen[w] {
			continue
		}
		seen[w] = true
		if inName[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(seen))
}
