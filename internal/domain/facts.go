// internal/domain/facts.go
package domain

// Exclusion reason codes recorded by the fact builder when a row fails a
// validation gate. These surface unchanged in the brief diagnostics.
const (
	ReasonNoSKU           = "no_sku"
	ReasonNoIdentity      = "no_identity"
	ReasonInvalidQuantity = "invalid_quantity"
	ReasonDuplicateSKU    = "duplicate_sku"
)

// SalesFact represents a SKU that sold at least one unit in the analysis
// period. Margin fields stay nil when the cost basis is unknown; they are
// never defaulted to zero.
type SalesFact struct {
	SKU           string   `json:"sku"`
	ProductName   string   `json:"product_name"`
	VariantName   string   `json:"variant_name"`
	DisplayName   string   `json:"display_name"`
	UnitsSold     int      `json:"units_sold"`
	Revenue       float64  `json:"revenue"`
	UnitCost      *float64 `json:"unit_cost,omitempty"`
	UnitMargin    *float64 `json:"unit_margin,omitempty"`
	MarginPercent *float64 `json:"margin_percent,omitempty"`
}

// AverageSalePrice returns revenue per unit sold, or 0 when it cannot be
// derived. UnitsSold is always positive for a constructed fact.
func (f SalesFact) AverageSalePrice() float64 {
	if f.UnitsSold <= 0 {
		return 0
	}
	return f.Revenue / float64(f.UnitsSold)
}

// InventoryFact represents any currently sellable SKU, whether or not it
// sold this period. Velocity zero is meaningful ("not moving"), so it is a
// plain float; coverage and recency stay nil when they cannot be computed.
type InventoryFact struct {
	SKU               string   `json:"sku"`
	ProductName       string   `json:"product_name"`
	VariantName       string   `json:"variant_name"`
	DisplayName       string   `json:"display_name"`
	AvailableQuantity float64  `json:"available_quantity"`
	UnitCost          *float64 `json:"unit_cost,omitempty"`
	RetailPrice       *float64 `json:"retail_price,omitempty"`
	UnitMargin        *float64 `json:"unit_margin,omitempty"`
	Velocity          float64  `json:"velocity"`
	DaysOfCoverage    *int     `json:"days_of_coverage,omitempty"`
	DaysSinceLastSale *int     `json:"days_since_last_sale,omitempty"`
	SlowMover         bool     `json:"is_slow_mover"`
}

// FactSet holds both fact tables for one analysis run, keyed by SKU, plus
// the exclusion diagnostics accumulated while building them. Facts are
// request-scoped value objects; a FactSet is never mutated after building.
type FactSet struct {
	SalesFacts       map[string]SalesFact     `json:"sales_facts"`
	InventoryFacts   map[string]InventoryFact `json:"inventory_facts"`
	ExcludedCount    int                      `json:"excluded_count"`
	ExclusionReasons map[string]int           `json:"exclusion_reasons"`
}
