package usecase

import (
	"github.com/ruokahinta/backend/internal/domain"
)

// Summarize rolls resolution results into a recipe cost summary. Only known
// prices are summed; unmatched and unpriced ingredients are counted so the
// caller can tell how partial the total is. CostPerServing is set only when
// servings is positive and at least one price is known.
func Summarize(results []domain.MatchResult, servings int) domain.RecipeCostSummary {
	summary := domain.RecipeCostSummary{
		Lines:            make([]domain.CostLine, 0, len(results)),
		TotalIngredients: len(results),
	}
	if servings > 0 {
		summary.Servings = servings
	}

	total := 0.0
	priced := 0
	mostExpensive, cheapest := -1, -1

	for _, result := range results {
		line := costLine(result)
		summary.Lines = append(summary.Lines, line)

		switch {
		case !result.Matched:
			summary.UnmatchedCount++
			if result.Reason == domain.ReasonCatalogUnavailable {
				summary.CatalogErrors++
			}
			continue
		case line.Price == nil:
			summary.MatchedCount++
			summary.UnpricedCount++
			continue
		}

		summary.MatchedCount++
		priced++
		total += *line.Price

		idx := len(summary.Lines) - 1
		if mostExpensive < 0 || *line.Price > *summary.Lines[mostExpensive].Price {
			mostExpensive = idx
		}
		if cheapest < 0 || *line.Price < *summary.Lines[cheapest].Price {
			cheapest = idx
		}
	}

	summary.TotalCost = roundCents(total)
	summary.Complete = summary.UnmatchedCount == 0 && summary.UnpricedCount == 0

	if priced > 0 {
		expensive := summary.Lines[mostExpensive]
		cheap := summary.Lines[cheapest]
		summary.MostExpensive = &expensive
		summary.Cheapest = &cheap

		if servings > 0 {
			perServing := roundCents(total / float64(servings))
			summary.CostPerServing = &perServing
		}
	}

	return summary
}

func costLine(result domain.MatchResult) domain.CostLine {
	line := domain.CostLine{
		Ingredient:   result.Ingredient.RawName,
		Matched:      result.Matched,
		Reason:       result.Reason,
		OptionsCount: len(result.Alternatives),
	}
	if result.Best != nil {
		line.Product = result.Best.Record.Name
		line.PriceText = result.Best.Record.PriceText
		line.Price = result.Best.NormalizedPrice
	}

	var minPrice, maxPrice, sum float64
	count := 0
	for _, alt := range result.Alternatives {
		if alt.NormalizedPrice == nil {
			continue
		}
		p := *alt.NormalizedPrice
		if count == 0 || p < minPrice {
			minPrice = p
		}
		if count == 0 || p > maxPrice {
			maxPrice = p
		}
		sum += p
		count++
	}
	if count > 0 {
		avg := roundCents(sum / float64(count))
		line.MinPrice = &minPrice
		line.MaxPrice = &maxPrice
		line.AvgPrice = &avg
	}
	return line
}
