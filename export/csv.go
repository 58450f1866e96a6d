package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/reports"
)

// CSV formatters are pure presentation downstream of the projections and the
// reporting aggregator; they never touch the database.

// WriteOrdersCSV writes one row per order.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	header := []string{
		"order_number", "product_type", "quantity", "current_department",
		"is_rush", "is_on_hold", "is_refinish", "cut_status", "lalo_status",
		"production_priority", "customer_name", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range orders {
		o := &orders[i]
		row := []string{
			o.OrderNumber,
			o.ProductType,
			strconv.Itoa(o.Quantity),
			o.CurrentDepartment,
			strconv.FormatBool(o.IsRush),
			strconv.FormatBool(o.IsOnHold),
			strconv.FormatBool(o.IsRefinish),
			o.CutStatus,
			o.LaloStatus,
			o.ProductionPriority(),
			o.CustomerName,
			o.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write order row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePerformanceCSV writes the daily performance report.
func WritePerformanceCSV(w io.Writer, date string, perf []reports.UserPerformance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "user", "target", "completed", "percentage", "grade"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range perf {
		row := []string{
			date,
			p.User,
			strconv.Itoa(p.Target),
			strconv.Itoa(p.Completed),
			strconv.Itoa(p.Percentage),
			p.Grade,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write performance row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInventoryCSV writes one row per inventory item.
func WriteInventoryCSV(w io.Writer, items []models.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sku", "name", "location", "quantity", "min_threshold"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		row := []string{
			item.SKU,
			item.Name,
			item.Location,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			strconv.FormatFloat(item.MinThreshold, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write inventory row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadInventoryCSV parses an inventory import file. The expected header is
// the one WriteInventoryCSV produces; rows with a bad quantity or threshold
// fail the whole import so a partial file is never applied.
func ReadInventoryCSV(r io.Reader) ([]models.InventoryItem, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	// Skip the header row if present.
	start := 0
	if records[0][0] == "sku" {
		start = 1
	}

	var items []models.InventoryItem
	for i, rec := range records[start:] {
		if len(rec) < 5 {
			return nil, fmt.Errorf("row %d: expected 5 columns, got %d", i+start+1, len(rec))
		}
		qty, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity %q", i+start+1, rec[3])
		}
		min, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid min_threshold %q", i+start+1, rec[4])
		}
		items = append(items, models.InventoryItem{
			SKU:          rec[0],
			Name:         rec[1],
			Location:     rec[2],
			Quantity:     qty,
			MinThreshold: min,
		})
	}
	return items, nil
}
