package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/shelfbrief/internal/domain"
)

func intp(v int) *int { return &v }

func factSet() *domain.FactSet {
	return &domain.FactSet{
		SalesFacts:       make(map[string]domain.SalesFact),
		InventoryFacts:   make(map[string]domain.InventoryFact),
		ExclusionReasons: make(map[string]int),
	}
}

func fastMover(sku string, coverageDays int) (domain.SalesFact, domain.InventoryFact) {
	sales := domain.SalesFact{
		SKU:         sku,
		DisplayName: sku + " (std)",
		UnitsSold:   20,
		Revenue:     500,
	}
	inv := domain.InventoryFact{
		SKU:               sku,
		DisplayName:       sku + " (std)",
		AvailableQuantity: 15,
		Velocity:          2.0,
		DaysOfCoverage:    intp(coverageDays),
	}
	return sales, inv
}

func TestClassify_ReorderFiresOnLowCoverage(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	sales, inv := fastMover("A1", 8)
	facts.SalesFacts["A1"] = sales
	facts.InventoryFacts["A1"] = inv

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)

	d := decisions[0]
	assert.Equal(t, domain.DecisionReorderNow, d.Type)
	assert.Equal(t, 2, d.Urgency)
	assert.True(t, d.HasFinancialData)
	// avg sale price 25 * velocity 2 * 7 days
	assert.InDelta(t, 350, d.DollarImpact, 1e-9)
}

func TestClassify_ReorderSkipsHealthyCoverage(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	sales, inv := fastMover("A1", 20)
	facts.SalesFacts["A1"] = sales
	facts.InventoryFacts["A1"] = inv

	for _, d := range c.Classify(facts) {
		assert.NotEqual(t, domain.DecisionReorderNow, d.Type)
	}
}

func TestClassify_ReorderCriticalUrgency(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	sales, inv := fastMover("A1", 4)
	facts.SalesFacts["A1"] = sales
	facts.InventoryFacts["A1"] = inv

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)
	assert.Equal(t, 3, decisions[0].Urgency)
}

func TestClassify_VelocityAtThresholdQualifies(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	sales, inv := fastMover("A1", 8)
	inv.Velocity = 0.5
	facts.SalesFacts["A1"] = sales
	facts.InventoryFacts["A1"] = inv

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)
	assert.Equal(t, domain.DecisionReorderNow, decisions[0].Type)
}

func TestClassify_ReorderNeedsFiniteCoverage(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	sales, inv := fastMover("A1", 0)
	inv.DaysOfCoverage = nil
	facts.SalesFacts["A1"] = sales
	facts.InventoryFacts["A1"] = inv

	for _, d := range c.Classify(facts) {
		assert.NotEqual(t, domain.DecisionReorderNow, d.Type)
	}
}

func TestClassify_HoldLine(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	facts.SalesFacts["H1"] = domain.SalesFact{
		SKU:           "H1",
		DisplayName:   "Serum (30ml)",
		UnitsSold:     10,
		Revenue:       1000,
		UnitMargin:    f64(60),
		MarginPercent: f64(60),
	}
	facts.InventoryFacts["H1"] = domain.InventoryFact{
		SKU:               "H1",
		DisplayName:       "Serum (30ml)",
		AvailableQuantity: 100,
		Velocity:          1.5,
	}

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)

	d := decisions[0]
	assert.Equal(t, domain.DecisionHoldLine, d.Type)
	assert.Equal(t, 0, d.Urgency)
	assert.InDelta(t, 630, d.DollarImpact, 1e-9) // 60 * 1.5 * 7
}

func TestClassify_HoldLineWithoutInventoryFact(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	facts.SalesFacts["H1"] = domain.SalesFact{
		SKU:           "H1",
		DisplayName:   "Serum (30ml)",
		UnitsSold:     10,
		Revenue:       1000,
		UnitMargin:    f64(60),
		MarginPercent: f64(60),
	}

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)
	assert.Equal(t, domain.DecisionHoldLine, decisions[0].Type)
	// No inventory fact means velocity 0, so no projected impact.
	assert.False(t, decisions[0].HasFinancialData)
	assert.Zero(t, decisions[0].DollarImpact)
}

func TestClassify_DiscountSlow(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	facts.InventoryFacts["S1"] = domain.InventoryFact{
		SKU:               "S1",
		DisplayName:       "Gloss (Rose)",
		AvailableQuantity: 30,
		UnitCost:          f64(4),
		Velocity:          0.02,
		DaysSinceLastSale: intp(40),
		SlowMover:         true,
	}
	facts.InventoryFacts["S2"] = domain.InventoryFact{
		SKU:               "S2",
		DisplayName:       "Gloss (Nude)",
		AvailableQuantity: 12,
		Velocity:          0.02,
		SlowMover:         true,
	}
	facts.InventoryFacts["S3"] = domain.InventoryFact{
		SKU:               "S3",
		DisplayName:       "Gloss (Coral)",
		AvailableQuantity: 2,
		Velocity:          0.02,
		SlowMover:         true,
	}

	decisions := c.Classify(facts)
	require.Len(t, decisions, 2, "S3 is below the discount stock floor")

	bySKU := map[string]domain.Decision{}
	for _, d := range decisions {
		bySKU[d.SKU] = d
	}

	withCost := bySKU["S1"]
	assert.Equal(t, domain.DecisionDiscountSlow, withCost.Type)
	assert.True(t, withCost.HasFinancialData)
	assert.InDelta(t, 120, withCost.DollarImpact, 1e-9) // 4 * 30
	assert.Equal(t, 1, withCost.Urgency)

	withoutCost := bySKU["S2"]
	assert.False(t, withoutCost.HasFinancialData)
	assert.Zero(t, withoutCost.DollarImpact)
	assert.Contains(t, withoutCost.Action, "units")
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	// Qualifies for reorder (fast, low coverage), hold (high margin) and
	// discount would be blocked anyway; only reorder may fire.
	facts := factSet()
	facts.SalesFacts["X1"] = domain.SalesFact{
		SKU:           "X1",
		DisplayName:   "Cream (50g)",
		UnitsSold:     20,
		Revenue:       500,
		UnitMargin:    f64(15),
		MarginPercent: f64(60),
	}
	facts.InventoryFacts["X1"] = domain.InventoryFact{
		SKU:               "X1",
		DisplayName:       "Cream (50g)",
		AvailableQuantity: 15,
		UnitCost:          f64(10),
		Velocity:          2.0,
		DaysOfCoverage:    intp(8),
	}

	decisions := c.Classify(facts)
	require.Len(t, decisions, 1)
	assert.Equal(t, domain.DecisionReorderNow, decisions[0].Type)

	seen := map[string]int{}
	for _, d := range decisions {
		seen[d.SKU]++
	}
	for sku, count := range seen {
		assert.Equal(t, 1, count, "SKU %s decided more than once", sku)
	}
}

func TestClassify_DeterministicOrdering(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	facts := factSet()
	for _, sku := range []string{"B2", "A9", "C1"} {
		sales, inv := fastMover(sku, 4)
		facts.SalesFacts[sku] = sales
		facts.InventoryFacts[sku] = inv
	}
	facts.InventoryFacts["Z1"] = domain.InventoryFact{
		SKU:               "Z1",
		DisplayName:       "Z1 (std)",
		AvailableQuantity: 50,
		UnitCost:          f64(2),
		Velocity:          0.01,
		SlowMover:         true,
	}

	first := c.Classify(facts)
	second := c.Classify(facts)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if prev.Urgency == cur.Urgency {
			assert.GreaterOrEqual(t, prev.DollarImpact, cur.DollarImpact)
		} else {
			assert.Greater(t, prev.Urgency, cur.Urgency)
		}
	}
}
