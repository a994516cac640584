// internal/engine/margin.go
package engine

import (
	"math"

	"github.com/retailops/shelfbrief/internal/domain"
)

// highCoveragePercent is the revenue coverage at or above which the margin
// aggregate is labelled high confidence.
const highCoveragePercent = 60

// ComputeWeightedMargin aggregates the sales facts into a single
// revenue-weighted margin figure with an explicit coverage percentage.
//
// Weighting by revenue rather than unit count keeps a handful of high-volume
// low-price SKUs from masking the margin of high-value items, and the
// coverage percentage makes it auditable how much of period revenue the
// figure actually represents. When nothing has a computable margin the
// result is explicitly unavailable with a reason; a silently-biased number
// is never produced.
func ComputeWeightedMargin(salesFacts map[string]domain.SalesFact) domain.MarginSummary {
	summary := domain.MarginSummary{Confidence: domain.ConfidenceNone}

	var totalMarginDollars float64
	for _, fact := range salesFacts {
		summary.TotalRevenue += fact.Revenue
		if fact.UnitMargin == nil {
			continue
		}
		summary.RevenueWithMargin += fact.Revenue
		summary.SKUCountWithMargin++
		totalMarginDollars += *fact.UnitMargin * float64(fact.UnitsSold)
	}

	if summary.SKUCountWithMargin == 0 {
		summary.Reason = "no SKUs with cost data this period"
		return summary
	}
	if summary.RevenueWithMargin <= 0 {
		summary.Reason = "SKUs with cost data recorded no revenue"
		return summary
	}

	avg := totalMarginDollars / summary.RevenueWithMargin * 100
	if !isFinite(avg) {
		summary.Reason = "margin aggregate is not a finite number"
		return summary
	}

	if summary.TotalRevenue > 0 {
		summary.CoveragePercent = int(math.Round(summary.RevenueWithMargin / summary.TotalRevenue * 100))
	}

	summary.AverageMarginPercent = &avg
	if summary.CoveragePercent >= highCoveragePercent {
		summary.Confidence = domain.ConfidenceHigh
	} else {
		summary.Confidence = domain.ConfidencePartial
	}

	return summary
}
