package domain

// CatalogRecord is a product listing owned by the catalog collaborator.
// Ordinal is the record's position in the catalog response and is used as the
// final ranking tie-breaker.
type CatalogRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PriceText string `json:"price"`
	Category  string `json:"category,omitempty"`
	Ordinal   int    `json:"-"`
}

// CostLine is one ingredient's contribution to a recipe cost summary
type CostLine struct {
	Ingredient   string   `json:"ingredient"`
	Matched      bool     `json:"matched"`
	Reason       Reason   `json:"reason"`
	Product      string   `json:"product,omitempty"`
	Price        *float64 `json:"price"`
	PriceText    string   `json:"priceText,omitempty"`
	OptionsCount int      `json:"optionsCount"`
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	AvgPrice     *float64 `json:"avgPrice,omitempty"`
}

// RecipeCostSummary rolls per-ingredient results into a recipe-level total.
// TotalCost only sums known prices; UnmatchedCount and UnpricedCount tell the
// caller how partial the total is.
type RecipeCostSummary struct {
	Lines            []CostLine `json:"lines"`
	TotalIngredients int        `json:"totalIngredients"`
	MatchedCount     int        `json:"matchedCount"`
	UnmatchedCount   int        `json:"unmatchedCount"`
	UnpricedCount    int        `json:"unpricedCount"`
	CatalogErrors    int        `json:"catalogErrors"`
	TotalCost        float64    `json:"totalCost"`
	Complete         bool       `json:"complete"`
	Servings         int        `json:"servings,omitempty"`
	CostPerServing   *float64   `json:"costPerServing,omitempty"`
	MostExpensive    *CostLine  `json:"mostExpensive,omitempty"`
	Cheapest         *CostLine  `json:"cheapest,omitempty"`
}
