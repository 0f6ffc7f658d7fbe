package domain

import "strings"

// Category identifies a product class used by the relevance filter and the
// category boost (e.g. "rice", "butter"). The empty Category means "unknown".
type Category string

// String returns the category key
func (c Category) String() string {
	return string(c)
}

// NormalizeCategory lowercases and trims a category key
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// IngredientRequest is a single recipe line item to be priced
type IngredientRequest struct {
	RawName      string   `json:"name"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	CategoryHint Category `json:"category,omitempty"`
}

// SearchTerm is one catalog query derived from an ingredient name.
// Lower Priority values are tried first.
type SearchTerm struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}

// Term priorities, in the order they are queried
const (
	PriorityPhrase   = 0 // full cleaned phrase
	PrioritySalient  = 1 // single most salient word
	PriorityVariant  = 2 // declined / plural variants
	PrioritySynonym  = 3 // configured synonyms
	PriorityFallback = 4 // multi-word fallback
)

// Reason explains the outcome of an ingredient resolution
type Reason string

const (
	ReasonMatched            Reason = "matched"
	ReasonNoCandidates       Reason = "no_candidates"
	ReasonCatalogUnavailable Reason = "catalog_unavailable"
	ReasonMalformedRequest   Reason = "malformed_request"
	ReasonBelowThreshold     Reason = "below_threshold"
)

// ScoreBreakdown holds the individual relevance signals of a candidate
type ScoreBreakdown struct {
	ExactWord     float64 `json:"exactWord"`
	Substring     float64 `json:"substring"`
	Similarity    float64 `json:"similarity"`
	CategoryBoost float64 `json:"categoryBoost"`
}

// MatchCandidate is a scored catalog record
type MatchCandidate struct {
	Record          CatalogRecord  `json:"record"`
	Score           float64        `json:"score"`
	NormalizedPrice *float64       `json:"normalizedPrice,omitempty"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Term            SearchTerm     `json:"term"`
}

// HasPrice reports whether the candidate's price text could be normalized
func (c MatchCandidate) HasPrice() bool {
	return c.NormalizedPrice != nil
}

// MatchResult is the final outcome for one ingredient. Alternatives holds at
// most the top three candidates, best first.
type MatchResult struct {
	Ingredient   IngredientRequest `json:"ingredient"`
	Best         *MatchCandidate   `json:"best,omitempty"`
	Alternatives []MatchCandidate  `json:"alternatives"`
	Matched      bool              `json:"matched"`
	Reason       Reason            `json:"reason"`
	Category     Category          `json:"category,omitempty"`
}

// ProductView is the plain serialized form of a candidate
type ProductView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	PriceText string   `json:"priceText"`
	Score     float64  `json:"score"`
}

// MatchResultView is the plain serialized form of a MatchResult
type MatchResultView struct {
	IngredientName string        `json:"ingredient_name"`
	Matched        bool          `json:"matched"`
	Reason         Reason        `json:"reason"`
	Category       Category      `json:"category,omitempty"`
	BestMatch      *ProductView  `json:"best_match,omitempty"`
	Alternatives   []ProductView `json:"alternatives"`
}

// View flattens the result into its serializable structure
func (r MatchResult) View() MatchResultView {
	view := MatchResultView{
		IngredientName: r.Ingredient.RawName,
		Matched:        r.Matched,
		Reason:         r.Reason,
		Category:       r.Category,
		Alternatives:   make([]ProductView, 0, len(r.Alternatives)),
	}
	if r.Best != nil {
		best := productView(*r.Best)
		view.BestMatch = &best
	}
	for _, alt := range r.Alternatives {
		view.Alternatives = append(view.Alternatives, productView(alt))
	}
	return view
}

func productView(c MatchCandidate) ProductView {
	return ProductView{
		ID:        c.Record.ID,
		Name:      c.Record.Name,
		Price:     c.NormalizedPrice,
		PriceText: c.Record.PriceText,
		Score:     c.Score,
	}
}
