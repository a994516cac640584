// internal/engine/engine.go
//
// Package engine is the fact layer and decision classification core: it
// validates raw inventory and velocity rows into canonical facts, computes
// the revenue-weighted margin aggregate, classifies each SKU into at most
// one action, and emits the bounded executive brief.
//
// The whole pipeline is a pure, synchronous, single-pass computation over
// the caller's in-memory collections. It does no I/O, holds no state between
// calls, and concurrent calls with different inputs are fully independent.
package engine

import (
	"time"

	"github.com/retailops/shelfbrief/internal/domain"
)

// Engine wires the four stages together behind one call.
type Engine struct {
	thresholds Thresholds
	builder    *FactBuilder
	classifier *Classifier
	generator  *BriefGenerator
	now        func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Recency calculations and the
// brief timestamp use it; tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(t Thresholds, opts ...Option) *Engine {
	e := &Engine{
		thresholds: t,
		builder:    NewFactBuilder(t),
		classifier: NewClassifier(t),
		generator:  NewBriefGenerator(t),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline over one snapshot and returns the executive
// brief. The only error condition is a caller contract violation (nil input
// collections); malformed rows degrade row-by-row into exclusions that show
// up in the brief diagnostics.
func (e *Engine) Analyze(inventoryRows []domain.InventoryRow, velocityRows []domain.VelocityRow) (*domain.ExecutiveBrief, error) {
	asOf := e.now()

	facts, err := e.builder.BuildFacts(inventoryRows, velocityRows, asOf)
	if err != nil {
		return nil, err
	}

	marginSummary := ComputeWeightedMargin(facts.SalesFacts)
	decisions := e.classifier.Classify(facts)
	rowCounts := [2]int{len(inventoryRows), len(velocityRows)}

	return e.generator.GenerateBrief(decisions, marginSummary, facts, rowCounts, asOf), nil
}

// BuildFacts exposes the fact layer on its own for callers that want the
// tables without a classification run.
func (e *Engine) BuildFacts(inventoryRows []domain.InventoryRow, velocityRows []domain.VelocityRow) (*domain.FactSet, error) {
	return e.builder.BuildFacts(inventoryRows, velocityRows, e.now())
}
