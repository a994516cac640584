// internal/engine/classifier.go
package engine

import (
	"fmt"
	"sort"

	"github.com/retailops/shelfbrief/internal/domain"
)

// Classifier turns the fact tables into a ranked list of actions using the
// configured thresholds. Each SKU gets at most one decision: the rule passes
// run in priority order (reorder, hold, discount) and later passes skip SKUs
// already decided.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify produces the ordered decision list for one fact set. Given
// identical fact tables the output order is identical: SKUs are visited in
// sorted order and the final sort is stable on urgency then dollar impact.
func (c *Classifier) Classify(facts *domain.FactSet) []domain.Decision {
	decisions := make([]domain.Decision, 0)
	decided := make(map[string]struct{})

	for _, sku := range sortedKeys(facts.SalesFacts) {
		sales := facts.SalesFacts[sku]
		inventory, ok := facts.InventoryFacts[sku]
		if !ok {
			continue
		}
		if d, fired := c.reorderNow(sales, inventory); fired {
			decisions = append(decisions, d)
			decided[sku] = struct{}{}
		}
	}

	for _, sku := range sortedKeys(facts.SalesFacts) {
		if _, done := decided[sku]; done {
			continue
		}
		sales := facts.SalesFacts[sku]
		if d, fired := c.holdLine(sales, facts.InventoryFacts[sku]); fired {
			decisions = append(decisions, d)
			decided[sku] = struct{}{}
		}
	}

	for _, sku := range sortedKeys(facts.InventoryFacts) {
		if _, done := decided[sku]; done {
			continue
		}
		if d, fired := c.discountSlow(facts.InventoryFacts[sku]); fired {
			decisions = append(decisions, d)
			decided[sku] = struct{}{}
		}
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].Urgency != decisions[j].Urgency {
			return decisions[i].Urgency > decisions[j].Urgency
		}
		return decisions[i].DollarImpact > decisions[j].DollarImpact
	})

	return decisions
}

// reorderNow fires for fast movers about to stock out. It needs both fact
// tables: velocity comes from inventory, price from sales.
func (c *Classifier) reorderNow(sales domain.SalesFact, inventory domain.InventoryFact) (domain.Decision, bool) {
	if inventory.Velocity < c.thresholds.HighVelocity || inventory.DaysOfCoverage == nil {
		return domain.Decision{}, false
	}
	coverage := *inventory.DaysOfCoverage
	if coverage > c.thresholds.LowStockDays {
		return domain.Decision{}, false
	}

	urgency := 2
	if coverage <= c.thresholds.CriticalStockDays {
		urgency = 3
	}

	d := domain.Decision{
		Type:        domain.DecisionReorderNow,
		SKU:         sales.SKU,
		DisplayName: sales.DisplayName,
		Urgency:     urgency,
		Reason: fmt.Sprintf("selling %.1f/day with ~%d days of stock left",
			inventory.Velocity, coverage),
		Action: fmt.Sprintf("Reorder now: about %d days until stockout at the current pace.", coverage),
		Metrics: map[string]float64{
			"velocity":         inventory.Velocity,
			"days_of_coverage": float64(coverage),
			"available_qty":    inventory.AvailableQuantity,
		},
	}

	impact := sales.AverageSalePrice() * inventory.Velocity * float64(c.thresholds.ImpactWindowDays)
	if isFinite(impact) && impact > 0 {
		d.DollarImpact = impact
		d.HasFinancialData = true
	}

	return d, true
}

// holdLine fires for high-margin sellers; the advice is to protect the
// price, not to act on stock. Velocity is taken from the inventory fact when
// the SKU has one, else treated as zero.
func (c *Classifier) holdLine(sales domain.SalesFact, inventory domain.InventoryFact) (domain.Decision, bool) {
	if sales.MarginPercent == nil || *sales.MarginPercent < c.thresholds.HighMarginPercent {
		return domain.Decision{}, false
	}

	d := domain.Decision{
		Type:        domain.DecisionHoldLine,
		SKU:         sales.SKU,
		DisplayName: sales.DisplayName,
		Urgency:     0,
		Reason:      fmt.Sprintf("earning %.0f%% margin on %d units sold", *sales.MarginPercent, sales.UnitsSold),
		Action:      "Hold the line on price: this SKU carries your margin.",
		Metrics: map[string]float64{
			"margin_percent": *sales.MarginPercent,
			"units_sold":     float64(sales.UnitsSold),
			"velocity":       inventory.Velocity,
		},
	}

	if sales.UnitMargin != nil {
		impact := *sales.UnitMargin * inventory.Velocity * float64(c.thresholds.ImpactWindowDays)
		if isFinite(impact) && impact > 0 {
			d.DollarImpact = impact
			d.HasFinancialData = true
		}
	}

	return d, true
}

// discountSlow fires for slow movers with enough stock on hand to be worth
// discounting. Without a unit cost the impact stays 0 and the action text
// talks in units instead of dollars.
func (c *Classifier) discountSlow(inventory domain.InventoryFact) (domain.Decision, bool) {
	if !inventory.SlowMover || inventory.AvailableQuantity < c.thresholds.MinStockForDiscount {
		return domain.Decision{}, false
	}

	d := domain.Decision{
		Type:        domain.DecisionDiscountSlow,
		SKU:         inventory.SKU,
		DisplayName: inventory.DisplayName,
		Urgency:     1,
		Reason:      slowMoverReason(inventory),
		Metrics: map[string]float64{
			"velocity":      inventory.Velocity,
			"available_qty": inventory.AvailableQuantity,
		},
	}
	if inventory.DaysSinceLastSale != nil {
		d.Metrics["days_since_last_sale"] = float64(*inventory.DaysSinceLastSale)
	}

	if inventory.UnitCost != nil {
		impact := *inventory.UnitCost * inventory.AvailableQuantity
		if isFinite(impact) && impact > 0 {
			d.DollarImpact = impact
			d.HasFinancialData = true
			d.Action = fmt.Sprintf("Discount to move: $%.0f of cost is parked in dead stock.", impact)
		}
	}
	if !d.HasFinancialData {
		d.Action = fmt.Sprintf("Discount to move: %.0f units are sitting without cost data.", inventory.AvailableQuantity)
	}

	return d, true
}

func slowMoverReason(inventory domain.InventoryFact) string {
	if inventory.DaysSinceLastSale != nil {
		return fmt.Sprintf("no sale in %d days with %.0f units on hand",
			*inventory.DaysSinceLastSale, inventory.AvailableQuantity)
	}
	return fmt.Sprintf("moving %.2f/day with %.0f units on hand",
		inventory.Velocity, inventory.AvailableQuantity)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
