package usecase

import (
	"math"
	"testing"

	"github.com/ruokahinta/backend/internal/domain"
)

func matchedResult(name, product, price string, altPrices ...string) domain.MatchResult {
	best := domain.MatchCandidate{
		Record:          domain.CatalogRecord{ID: product, Name: product, PriceText: price},
		Score:           0.9,
		NormalizedPrice: NormalizePrice(price),
	}
	alternatives := []domain.MatchCandidate{best}
	for i, p := range altPrices {
		alternatives = append(alternatives, domain.MatchCandidate{
			Record:          domain.CatalogRecord{ID: product + string(rune('a'+i)), Name: product, PriceText: p},
			Score:           0.5,
			NormalizedPrice: NormalizePrice(p),
		})
	}
	return domain.MatchResult{
		Ingredient:   domain.IngredientRequest{RawName: name},
		Best:         &best,
		Alternatives: alternatives,
		Matched:      true,
		Reason:       domain.ReasonMatched,
	}
}

func unmatchedResult(name string, reason domain.Reason) domain.MatchResult {
	return domain.MatchResult{
		Ingredient:   domain.IngredientRequest{RawName: name},
		Alternatives: []domain.MatchCandidate{},
		Reason:       reason,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	results := []domain.MatchResult{
		matchedResult("riisi", "Risella Puuroriisi 1kg", "1,99 €", "2,49 €"),
		matchedResult("voi", "Meijerivoi 500g", "3,49 €"),
		unmatchedResult("sahrami", domain.ReasonNoCandidates),
		matchedResult("suola", "Suola 1kg", "kpl"),
		unmatchedResult("kahvi", domain.ReasonCatalogUnavailable),
	}

	t.Run("sums only known prices", func(t *testing.T) {
		summary := Summarize(results, 2)

		if summary.TotalIngredients != 5 {
			t.Errorf("TotalIngredients = %d, want 5", summary.TotalIngredients)
		}
		if summary.MatchedCount != 3 || summary.UnmatchedCount != 2 {
			t.Errorf("matched/unmatched = %d/%d, want 3/2", summary.MatchedCount, summary.UnmatchedCount)
		}
		if summary.UnpricedCount != 1 {
			t.Errorf("UnpricedCount = %d, want 1", summary.UnpricedCount)
		}
		if summary.CatalogErrors != 1 {
			t.Errorf("CatalogErrors = %d, want 1", summary.CatalogErrors)
		}
		if !approx(summary.TotalCost, 5.48) {
			t.Errorf("TotalCost = %v, want 5.48", summary.TotalCost)
		}
		if summary.Complete {
			t.Error("expected incomplete summary")
		}
		if summary.CostPerServing == nil || !approx(*summary.CostPerServing, 2.74) {
			t.Errorf("CostPerServing = %v, want 2.74", summary.CostPerServing)
		}
	})

	t.Run("keeps input order and reports lines", func(t *testing.T) {
		summary := Summarize(results, 0)
		if len(summary.Lines) != len(results) {
			t.Fatalf("got %d lines, want %d", len(summary.Lines), len(results))
		}
		for i, line := range summary.Lines {
			if line.Ingredient != results[i].Ingredient.RawName {
				t.Errorf("line %d = %s, want %s", i, line.Ingredient, results[i].Ingredient.RawName)
			}
		}

		rice := summary.Lines[0]
		if rice.OptionsCount != 2 {
			t.Errorf("OptionsCount = %d, want 2", rice.OptionsCount)
		}
		if rice.MinPrice == nil || rice.MaxPrice == nil || rice.AvgPrice == nil {
			t.Fatal("expected price range on rice line")
		}
		if !approx(*rice.MinPrice, 1.99) || !approx(*rice.MaxPrice, 2.49) || !approx(*rice.AvgPrice, 2.24) {
			t.Errorf("range = %v/%v/%v, want 1.99/2.49/2.24", *rice.MinPrice, *rice.MaxPrice, *rice.AvgPrice)
		}

		if summary.Lines[2].Price != nil || summary.Lines[2].Product != "" {
			t.Error("unmatched line should carry no product or price")
		}
		if summary.Lines[3].Price != nil || summary.Lines[3].PriceText != "kpl" {
			t.Errorf("unpriced line = %+v", summary.Lines[3])
		}
	})

	t.Run("reports most expensive and cheapest", func(t *testing.T) {
		summary := Summarize(results, 0)
		if summary.MostExpensive == nil || summary.MostExpensive.Ingredient != "voi" {
			t.Errorf("MostExpensive = %+v, want voi", summary.MostExpensive)
		}
		if summary.Cheapest == nil || summary.Cheapest.Ingredient != "riisi" {
			t.Errorf("Cheapest = %+v, want riisi", summary.Cheapest)
		}
	})

	t.Run("no cost per serving without servings", func(t *testing.T) {
		summary := Summarize(results, 0)
		if summary.CostPerServing != nil || summary.Servings != 0 {
			t.Errorf("CostPerServing = %v, Servings = %d", summary.CostPerServing, summary.Servings)
		}
	})

	t.Run("unmatched ingredients are not counted as zero", func(t *testing.T) {
		summary := Summarize([]domain.MatchResult{unmatchedResult("sahrami", domain.ReasonNoCandidates)}, 4)
		if summary.TotalCost != 0 || summary.CostPerServing != nil {
			t.Errorf("TotalCost = %v, CostPerServing = %v", summary.TotalCost, summary.CostPerServing)
		}
		if summary.MostExpensive != nil || summary.Cheapest != nil {
			t.Error("expected no priced lines")
		}
		if summary.Complete {
			t.Error("expected incomplete summary")
		}
	})

	t.Run("complete when everything is priced", func(t *testing.T) {
		summary := Summarize(results[:2], 4)
		if !summary.Complete {
			t.Error("expected complete summary")
		}
		if summary.CostPerServing == nil || !approx(*summary.CostPerServing, 1.37) {
			t.Errorf("CostPerServing = %v, want 1.37", summary.CostPerServing)
		}
	})
}
