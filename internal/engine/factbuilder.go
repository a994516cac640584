// internal/engine/factbuilder.go
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/retailops/shelfbrief/internal/domain"
)

// sentinel identity values that upstream feeds use as placeholders. A fact
// is never built around one of these; the row is excluded instead.
var sentinelNames = map[string]struct{}{
	"":        {},
	"missing": {},
	"unknown": {},
	"n/a":     {},
}

// FactBuilder validates raw snapshot and velocity rows into the canonical
// fact tables. It never imputes missing financial data: a derived field that
// cannot be computed from finite operands is left absent, and a row that
// fails an identity or quantity gate is excluded and counted, not defaulted.
type FactBuilder struct {
	thresholds Thresholds
}

func NewFactBuilder(t Thresholds) *FactBuilder {
	return &FactBuilder{thresholds: t}
}

// BuildFacts constructs the fact tables for one analysis run. Both slices
// must be non-nil (pass empty slices for "no rows"); nil input is a caller
// contract violation, not a data-quality issue, and fails loudly.
//
// Malformed individual rows never cause an error. They increment
// ExcludedCount with a coarse reason code and are omitted from the tables.
func (b *FactBuilder) BuildFacts(inventoryRows []domain.InventoryRow, velocityRows []domain.VelocityRow, asOf time.Time) (*domain.FactSet, error) {
	if inventoryRows == nil {
		return nil, fmt.Errorf("factbuilder: inventory rows must not be nil")
	}
	if velocityRows == nil {
		return nil, fmt.Errorf("factbuilder: velocity rows must not be nil")
	}

	velocityBySKU := make(map[string]domain.VelocityRow, len(velocityRows))
	for _, v := range velocityRows {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			continue
		}
		if _, ok := velocityBySKU[sku]; !ok {
			velocityBySKU[sku] = v
		}
	}

	set := &domain.FactSet{
		SalesFacts:       make(map[string]domain.SalesFact),
		InventoryFacts:   make(map[string]domain.InventoryFact),
		ExclusionReasons: make(map[string]int),
	}

	seen := make(map[string]struct{}, len(inventoryRows))
	for _, row := range inventoryRows {
		sku := strings.TrimSpace(row.SKU)
		if sku == "" {
			exclude(set, domain.ReasonNoSKU)
			continue
		}
		if _, dup := seen[sku]; dup {
			exclude(set, domain.ReasonDuplicateSKU)
			continue
		}
		seen[sku] = struct{}{}

		productName, variantName, ok := resolveIdentity(row.ProductName, row.VariantName)
		if !ok {
			exclude(set, domain.ReasonNoIdentity)
			continue
		}
		displayName := fmt.Sprintf("%s (%s)", productName, variantName)

		velocity, hasVelocityRow := velocityBySKU[sku]

		// The quantity gate voids only the inventory fact; a sale this
		// period can still be recorded for the SKU.
		if row.AvailableQuantity == nil || !isFinite(*row.AvailableQuantity) || *row.AvailableQuantity < 0 {
			exclude(set, domain.ReasonInvalidQuantity)
		} else {
			set.InventoryFacts[sku] = b.buildInventoryFact(sku, productName, variantName, displayName, row, velocity, hasVelocityRow, asOf)
		}

		if hasVelocityRow && velocity.UnitsSoldInPeriod > 0 {
			set.SalesFacts[sku] = buildSalesFact(sku, productName, variantName, displayName, row, velocity)
		}
	}

	return set, nil
}

func (b *FactBuilder) buildInventoryFact(sku, productName, variantName, displayName string, row domain.InventoryRow, velocity domain.VelocityRow, hasVelocityRow bool, asOf time.Time) domain.InventoryFact {
	fact := domain.InventoryFact{
		SKU:               sku,
		ProductName:       productName,
		VariantName:       variantName,
		DisplayName:       displayName,
		AvailableQuantity: *row.AvailableQuantity,
		UnitCost:          positiveFinite(row.UnitCost),
		RetailPrice:       positiveFinite(row.RetailPrice),
	}

	if fact.UnitCost != nil && fact.RetailPrice != nil && *fact.RetailPrice > *fact.UnitCost {
		margin := *fact.RetailPrice - *fact.UnitCost
		if isFinite(margin) {
			fact.UnitMargin = &margin
		}
	}

	if hasVelocityRow && velocity.DailyVelocity != nil && isFinite(*velocity.DailyVelocity) && *velocity.DailyVelocity > 0 {
		fact.Velocity = *velocity.DailyVelocity
	}

	// Coverage rounds to the nearest whole day; 7.5 days of stock reads
	// as 8 on the brief.
	if fact.Velocity > 0 && fact.AvailableQuantity > 0 {
		coverage := fact.AvailableQuantity / fact.Velocity
		if isFinite(coverage) {
			days := int(math.Round(coverage))
			fact.DaysOfCoverage = &days
		}
	}

	if hasVelocityRow && velocity.LastSoldAt != nil {
		days := int(asOf.Sub(*velocity.LastSoldAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		fact.DaysSinceLastSale = &days
	}

	fact.SlowMover = fact.Velocity < b.thresholds.LowVelocity ||
		(fact.DaysSinceLastSale != nil && *fact.DaysSinceLastSale >= b.thresholds.SlowMoverDays)

	return fact
}

func buildSalesFact(sku, productName, variantName, displayName string, row domain.InventoryRow, velocity domain.VelocityRow) domain.SalesFact {
	fact := domain.SalesFact{
		SKU:         sku,
		ProductName: productName,
		VariantName: variantName,
		DisplayName: displayName,
		UnitsSold:   velocity.UnitsSoldInPeriod,
		UnitCost:    positiveFinite(row.UnitCost),
	}

	switch {
	case velocity.RevenueInPeriod != nil && isFinite(*velocity.RevenueInPeriod) && *velocity.RevenueInPeriod >= 0:
		fact.Revenue = *velocity.RevenueInPeriod
	case fact.UnitCost != nil || row.RetailPrice != nil:
		if retail := positiveFinite(row.RetailPrice); retail != nil {
			fact.Revenue = float64(fact.UnitsSold) * *retail
		}
	}

	// Margin needs a real average sale price and a known cost. Revenue 0
	// means the price side is unknown, so no margin is reported.
	if fact.UnitCost != nil && fact.Revenue > 0 {
		avgPrice := fact.Revenue / float64(fact.UnitsSold)
		unitMargin := avgPrice - *fact.UnitCost
		marginPercent := unitMargin / avgPrice * 100
		if isFinite(unitMargin) && isFinite(marginPercent) {
			fact.UnitMargin = &unitMargin
			fact.MarginPercent = &marginPercent
		}
	}

	return fact
}

// resolveIdentity returns a usable product and variant name, or ok=false
// when the row has no human-readable identity. When the variant field is a
// placeholder, a trailing parenthetical in the product name ("Widget (28G)")
// is promoted to the variant.
func resolveIdentity(productName, variantName string) (string, string, bool) {
	product := strings.TrimSpace(productName)
	variant := strings.TrimSpace(variantName)

	if isSentinelName(variant) {
		if base, extracted, ok := splitTrailingVariant(product); ok {
			product = base
			variant = extracted
		}
	}

	if isSentinelName(product) || isSentinelName(variant) {
		return "", "", false
	}
	return product, variant, true
}

// splitTrailingVariant splits "Name (Variant)" into its parts. Only a
// parenthetical at the very end of the string counts.
func splitTrailingVariant(name string) (string, string, bool) {
	if !strings.HasSuffix(name, ")") {
		return "", "", false
	}
	open := strings.LastIndex(name, "(")
	if open <= 0 {
		return "", "", false
	}
	base := strings.TrimSpace(name[:open])
	variant := strings.TrimSpace(name[open+1 : len(name)-1])
	if base == "" || variant == "" {
		return "", "", false
	}
	return base, variant, true
}

func isSentinelName(name string) bool {
	_, ok := sentinelNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func exclude(set *domain.FactSet, reason string) {
	set.ExcludedCount++
	set.ExclusionReasons[reason]++
}

// positiveFinite returns v only when it holds a finite value greater than
// zero, otherwise nil. Costs and prices of zero are treated as unknown.
func positiveFinite(v *float64) *float64 {
	if v == nil || !isFinite(*v) || *v <= 0 {
		return nil
	}
	value := *v
	return &value
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
