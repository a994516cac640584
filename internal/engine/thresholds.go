// internal/engine/thresholds.go
package engine

// Thresholds holds every tunable constant used by the classifier and fact
// builder. Values come from configuration so rule behavior can be adjusted
// without touching the rule logic itself.
type Thresholds struct {
	HighVelocity        float64 // units/day at or above which a SKU is fast-moving
	LowVelocity         float64 // units/day below which a SKU counts as a slow mover
	LowStockDays        int     // days of coverage at or below which reorder fires
	CriticalStockDays   int     // days of coverage at or below which reorder is critical
	HighMarginPercent   float64 // margin % at or above which hold-the-line fires
	MinStockForDiscount float64 // minimum on-hand units before a discount is worth running
	SlowMoverDays       int     // days since last sale at or above which a SKU is stale
	ImpactWindowDays    int     // projection window for dollar-impact figures
	MaxBriefActions     int     // executive brief action cap
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighVelocity:        0.5,
		LowVelocity:         0.1,
		LowStockDays:        10,
		CriticalStockDays:   5,
		HighMarginPercent:   50,
		MinStockForDiscount: 5,
		SlowMoverDays:       14,
		ImpactWindowDays:    7,
		MaxBriefActions:     3,
	}
}
