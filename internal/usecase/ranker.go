package usecase

import (
	"sort"

	"github.com/ruokahinta/backend/internal/domain"
)

const defaultMaxAlternatives = 3

// ScoredRecord is a relevant catalog record with its score, before ranking
type ScoredRecord struct {
	Record    domain.CatalogRecord
	Term      domain.SearchTerm
	Score     float64
	Breakdown domain.ScoreBreakdown
}

// RankerConfig holds configuration for the ranker
type RankerConfig struct {
	MaxAlternatives int
	MinScore        float64
}

// Ranker turns scored records into a MatchResult
type Ranker struct {
	maxAlternatives int
	minScore        float64
}

// NewRanker creates a ranker. MinScore 0 accepts any surviving candidate.
func NewRanker(config RankerConfig) *Ranker {
	limit := config.MaxAlternatives
	if limit <= 0 {
		limit = defaultMaxAlternatives
	}
	minScore := config.MinScore
	if minScore < 0 {
		minScore = 0
	}
	return &Ranker{
		maxAlternatives: limit,
		minScore:        minScore,
	}
}

// Rank normalizes prices, drops duplicate listings (same id, or same normalized
// name when the id is empty, keeping the highest score), sorts and truncates.
// Ordering is score descending, then priced before unpriced, then price
// ascending, then catalog order, then id, so the output does not depend on the
// order of the input slice.
func (r *Ranker) Rank(request domain.IngredientRequest, scored []ScoredRecord) domain.MatchResult {
	result := domain.MatchResult{
		Ingredient:   request,
		Alternatives: []domain.MatchCandidate{},
		Reason:       domain.ReasonNoCandidates,
	}

	byKey := make(map[string]int, len(scored))
	candidates := make([]domain.MatchCandidate, 0, len(scored))
	for _, s := range scored {
		candidate := domain.MatchCandidate{
			Record:          s.Record,
			Score:           clamp01(s.Score),
			NormalizedPrice: NormalizePrice(s.Record.PriceText),
			Breakdown:       s.Breakdown,
			Term:            s.Term,
		}
		key := dedupKey(s.Record)
		if idx, ok := byKey[key]; ok {
			if candidateLess(candidate, candidates[idx]) {
				candidates[idx] = candidate
			}
			continue
		}
		byKey[key] = len(candidates)
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j])
	})

	if len(candidates) > r.maxAlternatives {
		candidates = candidates[:r.maxAlternatives]
	}
	result.Alternatives = candidates
	if len(candidates) == 0 {
		return result
	}

	if candidates[0].Score < r.minScore {
		result.Reason = domain.ReasonBelowThreshold
		return result
	}

	best := candidates[0]
	result.Best = &best
	result.Matched = true
	result.Reason = domain.ReasonMatched
	return result
}

// dedupKey identifies a listing by id, or by its normalized name when the id is empty
func dedupKey(record domain.CatalogRecord) string {
	if record.ID != "" {
		return "id:" + record.ID
	}
	return "name:" + joinedWords(record.Name)
}

// candidateLess reports whether a ranks before b
func candidateLess(a, b domain.MatchCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.HasPrice() != b.HasPrice() {
		return a.HasPrice()
	}
	if a.HasPrice() && *a.NormalizedPrice != *b.NormalizedPrice {
		return *a.NormalizedPrice < *b.NormalizedPrice
	}
	if a.Record.Ordinal != b.Record.Ordinal {
		return a.Record.Ordinal < b.Record.Ordinal
	}
	if a.Record.ID != b.Record.ID {
		return a.Record.ID < b.Record.ID
	}
	return a.Record.Name < b.Record.Name
}
