package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/shelfbrief/internal/domain"
)

func decision(sku string, urgency int, impact float64, units float64) domain.Decision {
	d := domain.Decision{
		Type:        domain.DecisionReorderNow,
		SKU:         sku,
		DisplayName: sku + " (std)",
		Reason:      "test reason",
		Urgency:     urgency,
		Metrics:     map[string]float64{"available_qty": units},
	}
	if impact > 0 {
		d.DollarImpact = impact
		d.HasFinancialData = true
	}
	return d
}

func TestGenerateBrief_Boundedness(t *testing.T) {
	g := NewBriefGenerator(DefaultThresholds())

	decisions := []domain.Decision{
		decision("A1", 3, 900, 0),
		decision("B1", 3, 700, 0),
		decision("C1", 2, 500, 0),
		decision("D1", 1, 300, 0),
		decision("E1", 0, 100, 0),
	}

	brief := g.GenerateBrief(decisions, domain.MarginSummary{}, factSet(), [2]int{5, 5}, testAsOf)

	require.Len(t, brief.Actions, 3)
	assert.Equal(t, "A1", brief.Actions[0].SKU)
	assert.Equal(t, "C1", brief.Actions[2].SKU)
}

func TestGenerateBrief_EmptyHeadline(t *testing.T) {
	g := NewBriefGenerator(DefaultThresholds())

	brief := g.GenerateBrief(nil, domain.MarginSummary{}, factSet(), [2]int{0, 0}, testAsOf)

	assert.Equal(t, domain.HeadlineNoActions, brief.Headline)
	assert.Empty(t, brief.Actions)
	assert.Equal(t, "0 of 0 actions have cost data", brief.ImpactBuckets.CoverageLabel)
}

func TestGenerateBrief_SingleActionHeadline(t *testing.T) {
	g := NewBriefGenerator(DefaultThresholds())

	t.Run("quantified", func(t *testing.T) {
		brief := g.GenerateBrief([]domain.Decision{decision("A1", 3, 420, 0)},
			domain.MarginSummary{}, factSet(), [2]int{1, 1}, testAsOf)
		assert.Contains(t, brief.Headline, "A1 (std)")
		assert.Contains(t, brief.Headline, "$420")
	})

	t.Run("unquantified falls back to reason", func(t *testing.T) {
		brief := g.GenerateBrief([]domain.Decision{decision("A1", 1, 0, 30)},
			domain.MarginSummary{}, factSet(), [2]int{1, 1}, testAsOf)
		assert.Equal(t, "A1 (std): test reason", brief.Headline)
	})
}

func TestGenerateBrief_ImpactBuckets(t *testing.T) {
	g := NewBriefGenerator(DefaultThresholds())

	decisions := []domain.Decision{
		decision("A1", 3, 500, 0),
		decision("B1", 1, 0, 30),
	}

	brief := g.GenerateBrief(decisions, domain.MarginSummary{}, factSet(), [2]int{2, 2}, testAsOf)

	assert.InDelta(t, 500, brief.ImpactBuckets.QuantifiedImpact, 1e-9)
	assert.InDelta(t, 30, brief.ImpactBuckets.UnquantifiedUnits, 1e-9)
	assert.Equal(t, "1 of 2 actions have cost data", brief.ImpactBuckets.CoverageLabel)
	assert.Contains(t, brief.Headline, "$500")
	assert.Contains(t, brief.Headline, "30 units")
}

func TestGenerateBrief_DiagnosticsPassThrough(t *testing.T) {
	g := NewBriefGenerator(DefaultThresholds())

	facts := factSet()
	facts.ExcludedCount = 7
	facts.ExclusionReasons[domain.ReasonNoIdentity] = 4
	facts.ExclusionReasons[domain.ReasonNoSKU] = 3
	facts.SalesFacts["A1"] = domain.SalesFact{SKU: "A1"}

	brief := g.GenerateBrief(nil, domain.MarginSummary{}, facts, [2]int{10, 6}, testAsOf)

	assert.Equal(t, 7, brief.Diagnostics.ExcludedCount)
	assert.Equal(t, facts.ExclusionReasons, brief.Diagnostics.ExclusionReasons)
	assert.Equal(t, 10, brief.Diagnostics.InventoryRowCount)
	assert.Equal(t, 6, brief.Diagnostics.VelocityRowCount)
	assert.Equal(t, 1, brief.Diagnostics.SalesFactCount)
	assert.Equal(t, testAsOf, brief.GeneratedAt)
}
