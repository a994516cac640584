package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/retailops/shelfbrief/internal/domain"
)

// Repository reads inventory snapshots and sales aggregates from Postgres.
// It satisfies both provider interfaces so a single connection pool backs
// one analysis run.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

type inventoryRecord struct {
	SKU               string          `db:"sku"`
	ProductName       sql.NullString  `db:"product_name"`
	VariantName       sql.NullString  `db:"variant_name"`
	AvailableQuantity sql.NullFloat64 `db:"available_quantity"`
	UnitCost          sql.NullFloat64 `db:"unit_cost"`
	RetailPrice       sql.NullFloat64 `db:"retail_price"`
}

type velocityRecord struct {
	SKU        string          `db:"sku"`
	UnitsSold  int             `db:"units_sold"`
	Revenue    sql.NullFloat64 `db:"revenue"`
	LastSoldAt sql.NullTime    `db:"last_sold_at"`
}

// InventoryRows returns the most recent snapshot row per SKU. Nullable
// numeric columns map to nil pointers so a missing value is never confused
// with zero.
func (r *Repository) InventoryRows(ctx context.Context) ([]domain.InventoryRow, error) {
	query := `
        SELECT DISTINCT ON (sku)
            sku, product_name, variant_name,
            available_quantity, unit_cost, retail_price
        FROM inventory_snapshots
        ORDER BY sku, snapshot_date DESC
    `

	var records []inventoryRecord
	if err := r.db.selectWithSlot(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("error getting inventory snapshot: %w", err)
	}

	rows := make([]domain.InventoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.InventoryRow{
			SKU:               rec.SKU,
			ProductName:       rec.ProductName.String,
			VariantName:       rec.VariantName.String,
			AvailableQuantity: nullableFloat(rec.AvailableQuantity),
			UnitCost:          nullableFloat(rec.UnitCost),
			RetailPrice:       nullableFloat(rec.RetailPrice),
		})
	}

	return rows, nil
}

// VelocityRows aggregates sales over the trailing window. Daily velocity is
// derived here so every caller sees the same units-per-day definition.
func (r *Repository) VelocityRows(ctx context.Context, windowDays int) ([]domain.VelocityRow, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	query := `
        SELECT
            sku,
            COALESCE(SUM(quantity), 0)::int AS units_sold,
            SUM(line_total) AS revenue,
            MAX(ordered_at) AS last_sold_at
        FROM order_lines
        WHERE ordered_at >= now() - ($1 || ' days')::interval
        GROUP BY sku
    `

	var records []velocityRecord
	if err := r.db.selectWithSlot(ctx, &records, query, windowDays); err != nil {
		return nil, fmt.Errorf("error getting sales velocity: %w", err)
	}

	rows := make([]domain.VelocityRow, 0, len(records))
	for _, rec := range records {
		row := domain.VelocityRow{
			SKU:               rec.SKU,
			UnitsSoldInPeriod: rec.UnitsSold,
			RevenueInPeriod:   nullableFloat(rec.Revenue),
		}
		if rec.UnitsSold > 0 {
			v := float64(rec.UnitsSold) / float64(windowDays)
			row.DailyVelocity = &v
		}
		if rec.LastSoldAt.Valid {
			t := rec.LastSoldAt.Time
			row.LastSoldAt = &t
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
