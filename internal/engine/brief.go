// internal/engine/brief.go
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/retailops/shelfbrief/internal/domain"
)

// BriefGenerator truncates the ranked decisions to a bounded shortlist and
// wraps them with the summary buckets and diagnostics that make the brief
// auditable.
type BriefGenerator struct {
	thresholds Thresholds
}

func NewBriefGenerator(t Thresholds) *BriefGenerator {
	return &BriefGenerator{thresholds: t}
}

// GenerateBrief assembles the final report for one run. Decisions beyond the
// action cap are dropped, not merged; the shortlist keeps the classifier's
// order.
func (g *BriefGenerator) GenerateBrief(decisions []domain.Decision, marginSummary domain.MarginSummary, facts *domain.FactSet, rowCounts [2]int, generatedAt time.Time) *domain.ExecutiveBrief {
	maxActions := g.thresholds.MaxBriefActions
	if maxActions <= 0 {
		maxActions = DefaultThresholds().MaxBriefActions
	}

	actions := decisions
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	// Copy so the brief does not alias the classifier's slice.
	actions = append([]domain.Decision(nil), actions...)

	brief := &domain.ExecutiveBrief{
		Headline:      headline(actions),
		Actions:       actions,
		ImpactBuckets: impactBuckets(actions),
		MarginSummary: marginSummary,
		Diagnostics: domain.Diagnostics{
			InventoryRowCount:  rowCounts[0],
			VelocityRowCount:   rowCounts[1],
			SalesFactCount:     len(facts.SalesFacts),
			InventoryFactCount: len(facts.InventoryFacts),
			ExcludedCount:      facts.ExcludedCount,
			ExclusionReasons:   facts.ExclusionReasons,
		},
		GeneratedAt: generatedAt,
	}

	return brief
}

func impactBuckets(actions []domain.Decision) domain.ImpactBuckets {
	buckets := domain.ImpactBuckets{}
	withCost := 0
	for _, action := range actions {
		if action.HasFinancialData {
			buckets.QuantifiedImpact += action.DollarImpact
			withCost++
		} else {
			buckets.UnquantifiedUnits += action.Metrics["available_qty"]
		}
	}
	buckets.CoverageLabel = fmt.Sprintf("%d of %d actions have cost data", withCost, len(actions))
	return buckets
}

func headline(actions []domain.Decision) string {
	switch len(actions) {
	case 0:
		return domain.HeadlineNoActions
	case 1:
		return fmt.Sprintf("%s: %s", actions[0].DisplayName, impactLabel(actions[0]))
	default:
		return multiActionHeadline(actions)
	}
}

func impactLabel(action domain.Decision) string {
	if action.HasFinancialData {
		return fmt.Sprintf("$%.0f at stake over the next week", action.DollarImpact)
	}
	return action.Reason
}

func multiActionHeadline(actions []domain.Decision) string {
	var quantified float64
	var units float64
	for _, action := range actions {
		if action.HasFinancialData {
			quantified += action.DollarImpact
		} else {
			units += action.Metrics["available_qty"]
		}
	}

	var parts []string
	if quantified > 0 {
		parts = append(parts, fmt.Sprintf("$%.0f of quantified impact", quantified))
	}
	if units > 0 {
		parts = append(parts, fmt.Sprintf("%.0f units flagged without cost data", units))
	}
	if len(parts) == 0 {
		parts = append(parts, "review recommended")
	}

	return fmt.Sprintf("%d actions this period: %s.", len(actions), strings.Join(parts, "; "))
}
