// internal/domain/rows.go
package domain

import "time"

// InventoryRow is one per-SKU line from the inventory snapshot provider.
// Numeric fields are pointers because upstream feeds routinely omit them;
// a nil pointer means "not supplied", which is different from zero.
type InventoryRow struct {
	SKU               string   `json:"sku"`
	ProductName       string   `json:"product_name,omitempty"`
	VariantName       string   `json:"variant_name,omitempty"`
	AvailableQuantity *float64 `json:"available_quantity,omitempty"`
	UnitCost          *float64 `json:"unit_cost,omitempty"`
	RetailPrice       *float64 `json:"retail_price,omitempty"`
}

// VelocityRow is one per-SKU line from the velocity metrics provider.
// Rows may be missing entirely for SKUs that did not sell in the window.
type VelocityRow struct {
	SKU               string     `json:"sku"`
	UnitsSoldInPeriod int        `json:"units_sold_in_period"`
	RevenueInPeriod   *float64   `json:"revenue_in_period,omitempty"`
	DailyVelocity     *float64   `json:"daily_velocity,omitempty"`
	LastSoldAt        *time.Time `json:"last_sold_at,omitempty"`
}
