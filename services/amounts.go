// Package services provides the domain logic around the template builder:
// amount math, library lookups, document stamping, exports and imports.
package services

import "templatebuilder/builder"

// LineAmount is the extended amount of one priced row.
func LineAmount(rate, qty float64) float64 {
	return rate * qty
}

// TemplateTotals summarizes the builder's current item list for display
// surfaces and exports.
type TemplateTotals struct {
	ItemCount   int
	TotalAmount float64
}

// CalcTemplateTotals sums the extended amounts across the given items.
func CalcTemplateTotals(items []builder.Item) TemplateTotals {
	totals := TemplateTotals{ItemCount: len(items)}
	for _, it := range items {
		totals.TotalAmount += LineAmount(it.Rate, it.QuantityMultiplier)
	}
	return totals
}
