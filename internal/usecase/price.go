package usecase

import (
	"math"
	"strconv"
	"strings"
)

// NormalizePrice converts a locale-formatted price ("1,99 €", "€1,299.00") to a
// number. It returns nil when the text holds no parseable number; callers must
// treat nil as "price unknown", never as zero.
//
// Only digits, commas and periods are kept. When both separators occur the last
// one is the decimal point and the other is a thousands separator; a lone comma
// is the decimal point. Several commas without a period are ambiguous ("1,99 €
// 2,49/kg") and yield nil.
func NormalizePrice(priceText string) *float64 {
	var b strings.Builder
	for _, r := range priceText {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastPeriod := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastPeriod >= 0:
		if lastComma > lastPeriod {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = replaceLastComma(cleaned)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			return nil
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil
	}
	return &value
}

// replaceLastComma turns the last comma into the decimal point and drops the rest
func replaceLastComma(s string) string {
	idx := strings.LastIndex(s, ",")
	return strings.ReplaceAll(s[:idx], ",", "") + "." + s[idx+1:]
}

// FormatPrice renders a price the way the catalog does: "1,99 €"
func FormatPrice(value float64) string {
	return strings.Replace(strconv.FormatFloat(roundCents(value), 'f', 2, 64), ".", ",", 1) + " €"
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
