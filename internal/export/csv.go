// Package export renders stock data into downloadable report files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"stockmaster/internal/core"
)

// csvTimeLayout matches the timestamps shown in report files.
const csvTimeLayout = "2006-01-02 15:04"

// stockHeader is the column set of the stock CSV and XLSX reports.
var stockHeader = []string{"Item Name", "Category", "Quantity", "Unit Price", "Total Value", "Min Threshold", "Last Updated"}

// WriteStockCSV streams the stock ledger as CSV.
func WriteStockCSV(w io.Writer, items []core.StockItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stockHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{
			it.Name,
			it.Category,
			strconv.FormatInt(it.Quantity, 10),
			it.Price.String(),
			it.Value().String(),
			strconv.FormatInt(it.MinThreshold, 10),
			it.LastUpdated.Format(csvTimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileTimestamp renders t for use in download filenames.
func FileTimestamp(t time.Time) string {
	return t.Format("2006-01-02")
}
