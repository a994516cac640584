// internal/domain/brief.go
package domain

import "time"

// HeadlineNoActions is the exact headline emitted when the classifier found
// nothing actionable.
const HeadlineNoActions = "No high-confidence actions this period."

// ImpactBuckets splits the shortlisted actions into dollar-quantified impact
// and cost-blind unit counts, with a human-readable coverage label.
type ImpactBuckets struct {
	QuantifiedImpact  float64 `json:"quantified_impact"`
	UnquantifiedUnits float64 `json:"unquantified_units"`
	CoverageLabel     string  `json:"coverage_label"`
}

// Diagnostics lets operators tell "no actions because business is healthy"
// apart from "no actions because most rows were rejected". ExclusionReasons
// is carried through from the fact builder unchanged.
type Diagnostics struct {
	InventoryRowCount  int            `json:"inventory_row_count"`
	VelocityRowCount   int            `json:"velocity_row_count"`
	SalesFactCount     int            `json:"sales_fact_count"`
	InventoryFactCount int            `json:"inventory_fact_count"`
	ExcludedCount      int            `json:"excluded_count"`
	ExclusionReasons   map[string]int `json:"exclusion_reasons"`
}

// ExecutiveBrief is the final bounded report for one analysis run.
type ExecutiveBrief struct {
	Headline      string        `json:"headline"`
	Actions       []Decision    `json:"actions"`
	ImpactBuckets ImpactBuckets `json:"impact_buckets"`
	MarginSummary MarginSummary `json:"margin_summary"`
	Diagnostics   Diagnostics   `json:"diagnostics"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
