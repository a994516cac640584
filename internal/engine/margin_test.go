package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/shelfbrief/internal/domain"
)

func salesFactWithMargin(sku string, revenue float64, unitsSold int, unitMargin float64) domain.SalesFact {
	return domain.SalesFact{
		SKU:        sku,
		UnitsSold:  unitsSold,
		Revenue:    revenue,
		UnitMargin: f64(unitMargin),
	}
}

func TestComputeWeightedMargin_UnavailableWithoutCostData(t *testing.T) {
	facts := map[string]domain.SalesFact{
		"A1": {SKU: "A1", UnitsSold: 10, Revenue: 1000},
	}

	summary := ComputeWeightedMargin(facts)

	assert.False(t, summary.Available())
	assert.Equal(t, domain.ConfidenceNone, summary.Confidence)
	assert.NotEmpty(t, summary.Reason)
	assert.InDelta(t, 1000, summary.TotalRevenue, 1e-9)
	assert.Zero(t, summary.SKUCountWithMargin)
}

func TestComputeWeightedMargin_EmptyInput(t *testing.T) {
	summary := ComputeWeightedMargin(map[string]domain.SalesFact{})

	assert.False(t, summary.Available())
	assert.Equal(t, domain.ConfidenceNone, summary.Confidence)
	assert.NotEmpty(t, summary.Reason)
}

func TestComputeWeightedMargin_PartialCoverage(t *testing.T) {
	// $1000 revenue in total, only $400 of it with cost data carrying
	// $100 of margin dollars.
	facts := map[string]domain.SalesFact{
		"A1": {SKU: "A1", UnitsSold: 60, Revenue: 600},
		"B1": salesFactWithMargin("B1", 400, 10, 10),
	}

	summary := ComputeWeightedMargin(facts)

	require.True(t, summary.Available())
	assert.InDelta(t, 25, *summary.AverageMarginPercent, 1e-9)
	assert.Equal(t, 40, summary.CoveragePercent)
	assert.Equal(t, domain.ConfidencePartial, summary.Confidence)
	assert.InDelta(t, 400, summary.RevenueWithMargin, 1e-9)
	assert.Equal(t, 1, summary.SKUCountWithMargin)
	assert.Empty(t, summary.Reason)
}

func TestComputeWeightedMargin_HighConfidence(t *testing.T) {
	facts := map[string]domain.SalesFact{
		"A1": salesFactWithMargin("A1", 700, 70, 4),
		"B1": {SKU: "B1", UnitsSold: 30, Revenue: 300},
	}

	summary := ComputeWeightedMargin(facts)

	require.True(t, summary.Available())
	assert.Equal(t, 70, summary.CoveragePercent)
	assert.Equal(t, domain.ConfidenceHigh, summary.Confidence)
	assert.InDelta(t, 40, *summary.AverageMarginPercent, 1e-9) // 280 / 700 * 100
}

func TestComputeWeightedMargin_CoverageMonotonicity(t *testing.T) {
	withoutCost := map[string]domain.SalesFact{
		"A1": {SKU: "A1", UnitsSold: 60, Revenue: 600},
		"B1": salesFactWithMargin("B1", 400, 10, 10),
	}
	withCost := map[string]domain.SalesFact{
		"A1": salesFactWithMargin("A1", 600, 60, 5),
		"B1": salesFactWithMargin("B1", 400, 10, 10),
	}

	before := ComputeWeightedMargin(withoutCost)
	after := ComputeWeightedMargin(withCost)

	assert.GreaterOrEqual(t, after.CoveragePercent, before.CoveragePercent)
	assert.Equal(t, 100, after.CoveragePercent)
}
