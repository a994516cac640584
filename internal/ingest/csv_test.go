package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadInventoryCSV_AliasedColumns(t *testing.T) {
	path := writeTempCSV(t, "inventory.csv",
		"SKU,Strain,Variant,Stock,Cost Price,Selling Price\n"+
			"A1,Widget,28G,40,10,25\n"+
			"B1,Gadget,,,,\n")

	rows, err := ReadInventoryCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "A1", first.SKU)
	assert.Equal(t, "Widget", first.ProductName)
	assert.Equal(t, "28G", first.VariantName)
	require.NotNil(t, first.AvailableQuantity)
	assert.InDelta(t, 40, *first.AvailableQuantity, 1e-9)
	require.NotNil(t, first.UnitCost)
	assert.InDelta(t, 10, *first.UnitCost, 1e-9)
	require.NotNil(t, first.RetailPrice)
	assert.InDelta(t, 25, *first.RetailPrice, 1e-9)

	second := rows[1]
	assert.Nil(t, second.AvailableQuantity, "empty cell stays unsupplied")
	assert.Nil(t, second.UnitCost)
	assert.Nil(t, second.RetailPrice)
}

func TestReadInventoryCSV_ThousandSeparators(t *testing.T) {
	path := writeTempCSV(t, "inventory.csv",
		"sku,product_name,variant_name,available_quantity\n"+
			"A1,Widget,28G,\"1,250\"\n")

	rows, err := ReadInventoryCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AvailableQuantity)
	assert.InDelta(t, 1250, *rows[0].AvailableQuantity, 1e-9)
}

func TestReadVelocityCSV(t *testing.T) {
	path := writeTempCSV(t, "velocity.csv",
		"sku,units_sold,revenue,daily_sales,last_sold_at\n"+
			"A1,20,500,2.0,2026-07-30T10:00:00Z\n"+
			"B1,3,,0.1,not-a-date\n")

	rows, err := ReadVelocityCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 20, first.UnitsSoldInPeriod)
	require.NotNil(t, first.RevenueInPeriod)
	assert.InDelta(t, 500, *first.RevenueInPeriod, 1e-9)
	require.NotNil(t, first.LastSoldAt)
	assert.Equal(t, time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC), first.LastSoldAt.UTC())

	second := rows[1]
	assert.Nil(t, second.RevenueInPeriod)
	assert.Nil(t, second.LastSoldAt, "unparseable timestamps are dropped")
}

func TestReadInventoryCSV_MissingFile(t *testing.T) {
	_, err := ReadInventoryCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
