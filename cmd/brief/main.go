package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/retailops/shelfbrief/internal/domain"
	"github.com/retailops/shelfbrief/internal/engine"
	"github.com/retailops/shelfbrief/internal/ingest"
	"github.com/urfave/cli/v2"
)

func newWindowFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "window-days",
		Usage:   "Sales window the velocity metrics cover, in days",
		Value:   30,
		EnvVars: []string{"ANALYSIS_WINDOW_DAYS"},
	}
}

func newPrettyFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Indent the JSON output",
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "brief",
		Usage: "Generate an executive inventory brief",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze CSV exports and print the brief as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "inventory-csv",
						Usage:    "Path to the inventory snapshot CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "velocity-csv",
						Usage:    "Path to the sales velocity CSV",
						Required: true,
					},
					newWindowFlag(),
					newPrettyFlag(),
				},
				Action: analyzeCSV,
			},
			{
				Name:  "analyze-db",
				Usage: "Analyze live database tables and print the brief as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					newWindowFlag(),
					newPrettyFlag(),
				},
				Action: analyzeDB,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyzeCSV(c *cli.Context) error {
	inventoryRows, err := ingest.ReadInventoryCSV(c.String("inventory-csv"))
	if err != nil {
		return err
	}

	velocityRows, err := ingest.ReadVelocityCSV(c.String("velocity-csv"))
	if err != nil {
		return err
	}

	return runAnalysis(c, inventoryRows, velocityRows)
}

func analyzeDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	inventoryRows, err := fetchInventoryRows(c.Context, db)
	if err != nil {
		return err
	}

	velocityRows, err := fetchVelocityRows(c.Context, db, c.Int("window-days"))
	if err != nil {
		return err
	}

	return runAnalysis(c, inventoryRows, velocityRows)
}

func runAnalysis(c *cli.Context, inventoryRows []domain.InventoryRow, velocityRows []domain.VelocityRow) error {
	eng := engine.New(engine.DefaultThresholds())

	brief, err := eng.Analyze(inventoryRows, velocityRows)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	if c.Bool("pretty") {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(brief)
}

func fetchInventoryRows(ctx context.Context, db *sql.DB) ([]domain.InventoryRow, error) {
	const query = `
		SELECT DISTINCT ON (sku)
			sku, product_name, variant_name,
			available_quantity, unit_cost, retail_price
		FROM inventory_snapshots
		ORDER BY sku, snapshot_date DESC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory snapshot: %w", err)
	}
	defer rows.Close()

	var result []domain.InventoryRow
	for rows.Next() {
		var (
			row              domain.InventoryRow
			name, variant    sql.NullString
			qty, cost, price sql.NullFloat64
		)
		if err := rows.Scan(&row.SKU, &name, &variant, &qty, &cost, &price); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		row.ProductName = name.String
		row.VariantName = variant.String
		row.AvailableQuantity = floatPtr(qty)
		row.UnitCost = floatPtr(cost)
		row.RetailPrice = floatPtr(price)
		result = append(result, row)
	}
	if result == nil {
		result = make([]domain.InventoryRow, 0)
	}

	return result, rows.Err()
}

func fetchVelocityRows(ctx context.Context, db *sql.DB, windowDays int) ([]domain.VelocityRow, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	const query = `
		SELECT
			sku,
			COALESCE(SUM(quantity), 0)::int AS units_sold,
			SUM(line_total) AS revenue,
			MAX(ordered_at) AS last_sold_at
		FROM order_lines
		WHERE ordered_at >= now() - ($1 || ' days')::interval
		GROUP BY sku
	`

	rows, err := db.QueryContext(ctx, query, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales velocity: %w", err)
	}
	defer rows.Close()

	var result []domain.VelocityRow
	for rows.Next() {
		var (
			row      domain.VelocityRow
			revenue  sql.NullFloat64
			lastSold sql.NullTime
		)
		if err := rows.Scan(&row.SKU, &row.UnitsSoldInPeriod, &revenue, &lastSold); err != nil {
			return nil, fmt.Errorf("failed to scan velocity row: %w", err)
		}
		row.RevenueInPeriod = floatPtr(revenue)
		if row.UnitsSoldInPeriod > 0 {
			v := float64(row.UnitsSoldInPeriod) / float64(windowDays)
			row.DailyVelocity = &v
		}
		if lastSold.Valid {
			t := lastSold.Time
			row.LastSoldAt = &t
		}
		result = append(result, row)
	}
	if result == nil {
		result = make([]domain.VelocityRow, 0)
	}

	return result, rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
