package product

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// BasePrice is what every product costs before tag surcharges
const BasePrice = 19.99

// surcharge adds Amount once per tag containing any of Keywords
type surcharge struct {
	Keywords []string
	Amount   float64
}

var surcharges = []surcharge{
	{Keywords: []string{"premium", "luxury"}, Amount: 10.00},
	{Keywords: []string{"vintage", "retro"}, Amount: 5.00},
	{Keywords: []string{"space", "galaxy"}, Amount: 7.00},
}

// ComputePrice returns BasePrice plus every surcharge matched by the tags,
// rounded to cents. A tag that matches several groups pays for each of them.
func ComputePrice(tags []string) float64 {
	fold := cases.Fold()
	total := BasePrice

	for _, tag := range tags {
		folded := fold.String(tag)
		for _, s := range surcharges {
			if containsAny(folded, s.Keywords) {
				total += s.Amount
			}
		}
	}

	return roundCents(total)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
