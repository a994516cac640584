// internal/provider/provider.go
package provider

import (
	"context"

	"github.com/retailops/shelfbrief/internal/domain"
)

// SnapshotProvider supplies the current per-SKU inventory snapshot. The
// engine treats the returned slice as atomic for the duration of one run.
type SnapshotProvider interface {
	InventoryRows(ctx context.Context) ([]domain.InventoryRow, error)
}

// VelocityProvider supplies per-SKU sales velocity metrics over a trailing
// window of days. SKUs with no sales in the window may be absent.
type VelocityProvider interface {
	VelocityRows(ctx context.Context, windowDays int) ([]domain.VelocityRow, error)
}
