// internal/domain/decision.go
package domain

// DecisionType identifies one of the mutually exclusive actions the
// classifier can recommend for a SKU.
type DecisionType string

const (
	DecisionReorderNow   DecisionType = "REORDER_NOW"
	DecisionHoldLine     DecisionType = "HOLD_LINE"
	DecisionDiscountSlow DecisionType = "DISCOUNT_SLOW"
)

// Decision is one classified action for one SKU. DollarImpact is 0 with
// HasFinancialData false when the supporting cost data is missing; consumers
// must render the reason text instead of a placeholder number in that case.
type Decision struct {
	Type             DecisionType       `json:"type"`
	SKU              string             `json:"sku"`
	DisplayName      string             `json:"display_name"`
	Reason           string             `json:"reason"`
	Action           string             `json:"action"`
	DollarImpact     float64            `json:"dollar_impact"`
	HasFinancialData bool               `json:"has_financial_data"`
	Urgency          int                `json:"urgency"`
	Metrics          map[string]float64 `json:"metrics,omitempty"`
}

// MarginConfidence labels how much of period revenue backs the weighted
// margin figure. It is informational only and never blocks display.
type MarginConfidence string

const (
	ConfidenceHigh    MarginConfidence = "high"
	ConfidencePartial MarginConfidence = "partial"
	ConfidenceNone    MarginConfidence = "none"
)

// MarginSummary is the revenue-weighted margin aggregate. When no SKU has a
// computable margin, AverageMarginPercent is nil, Confidence is "none" and
// Reason says why; a fabricated 0 is never reported.
type MarginSummary struct {
	AverageMarginPercent *float64         `json:"average_margin_percent,omitempty"`
	TotalRevenue         float64          `json:"total_revenue"`
	RevenueWithMargin    float64          `json:"revenue_with_margin"`
	SKUCountWithMargin   int              `json:"sku_count_with_margin"`
	CoveragePercent      int              `json:"coverage_percent"`
	Confidence           MarginConfidence `json:"confidence"`
	Reason               string           `json:"reason,omitempty"`
}

// Available reports whether the aggregate produced a usable margin figure.
func (m MarginSummary) Available() bool {
	return m.AverageMarginPercent != nil
}
