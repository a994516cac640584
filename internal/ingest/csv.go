// internal/ingest/csv.go
//
// Package ingest is the boundary adapter between heterogeneous upstream
// exports and the canonical rows the engine consumes. All column-name
// aliasing and loose parsing happens here, once, so the fact builder stays
// strict and single-shaped.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/shelfbrief/internal/domain"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// header wraps a CSV header line with alias-aware column lookup.
type header struct {
	index map[string]int
}

func newHeader(cols []string) header {
	idx := make(map[string]int, len(cols))
	for i, col := range cols {
		name := normalizeColumnName(col)
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return header{index: idx}
}

// col returns the index of the first alias present in the header, or -1.
func (h header) col(aliases ...string) int {
	for _, alias := range aliases {
		if i, ok := h.index[normalizeColumnName(alias)]; ok {
			return i
		}
	}
	return -1
}

// ReadInventoryCSV loads an inventory snapshot export. Upstream systems name
// the same columns differently (product_name vs. strain vs. name); the alias
// table here absorbs that so downstream code never has to.
func ReadInventoryCSV(path string) ([]domain.InventoryRow, error) {
	return readCSV(path, func(h header) func([]string) domain.InventoryRow {
		idxSKU := h.col("sku", "sku_code", "item_sku")
		idxProduct := h.col("product_name", "product", "name", "strain")
		idxVariant := h.col("variant_name", "variant", "variant_title")
		idxQty := h.col("available_quantity", "available", "quantity", "qty", "stock")
		idxCost := h.col("unit_cost", "cost", "cost_price")
		idxRetail := h.col("retail_price", "retail", "price", "selling_price")

		return func(record []string) domain.InventoryRow {
			return domain.InventoryRow{
				SKU:               cell(record, idxSKU),
				ProductName:       cell(record, idxProduct),
				VariantName:       cell(record, idxVariant),
				AvailableQuantity: parseFloatCell(record, idxQty),
				UnitCost:          parseFloatCell(record, idxCost),
				RetailPrice:       parseFloatCell(record, idxRetail),
			}
		}
	})
}

// ReadVelocityCSV loads pre-aggregated sales velocity metrics.
func ReadVelocityCSV(path string) ([]domain.VelocityRow, error) {
	return readCSV(path, func(h header) func([]string) domain.VelocityRow {
		idxSKU := h.col("sku", "sku_code", "item_sku")
		idxUnits := h.col("units_sold_in_period", "units_sold", "units")
		idxRevenue := h.col("revenue_in_period", "revenue", "sales")
		idxVelocity := h.col("daily_velocity", "velocity", "units_per_day", "daily_sales")
		idxLastSold := h.col("last_sold_at", "last_sale", "last_sold")

		return func(record []string) domain.VelocityRow {
			row := domain.VelocityRow{
				SKU:             cell(record, idxSKU),
				RevenueInPeriod: parseFloatCell(record, idxRevenue),
				DailyVelocity:   parseFloatCell(record, idxVelocity),
				LastSoldAt:      parseTimeCell(record, idxLastSold),
			}
			if units := parseFloatCell(record, idxUnits); units != nil {
				row.UnitsSoldInPeriod = int(*units)
			}
			return row
		}
	})
}

func readCSV[T any](path string, bind func(header) func([]string) T) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	cols, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read header of %s: %w", path, err)
	}

	mapRecord := bind(newHeader(cols))

	rows := make([]T, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		rows = append(rows, mapRecord(record))
	}

	return rows, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseFloatCell returns nil for anything that is not a clean number; an
// empty cell stays "not supplied" rather than becoming zero.
func parseFloatCell(record []string, idx int) *float64 {
	v := cell(record, idx)
	if v == "" {
		return nil
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeCell(record []string, idx int) *time.Time {
	v := cell(record, idx)
	if v == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
