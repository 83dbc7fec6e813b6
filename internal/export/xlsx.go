package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"stockmaster/internal/core"
)

// InvoiceLine is one sold line of a tax invoice.
type InvoiceLine struct {
	ItemName   string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
	LineTotal  decimal.Decimal
}

// Invoice is the input for the tax invoice workbook.
type Invoice struct {
	Customer   string
	Date       time.Time
	Lines      []InvoiceLine
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// ActivityEntry is one transaction row of the activity report, with the item
// name already resolved.
type ActivityEntry struct {
	Tx       core.StockTransaction
	ItemName string
}

// StockWorkbook renders the current stock ledger as an XLSX report with a
// totals block under the item rows.
func StockWorkbook(items []core.StockItem) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, len(stockHeader))
	for i, h := range stockHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	totalValue := decimal.Zero
	var totalQty int64
	lowStock := 0
	for _, it := range items {
		totalValue = totalValue.Add(it.Value())
		totalQty += it.Quantity
		if it.LowStock() {
			lowStock++
		}
		data := []interface{}{
			it.Name,
			it.Category,
			it.Quantity,
			it.Price.String(),
			it.Value().String(),
			it.MinThreshold,
			it.LastUpdated.Format(csvTimeLayout),
		}
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	row++ // blank separator
	summary := [][]interface{}{
		{"Total Items", len(items)},
		{"Total Quantity", totalQty},
		{"Total Stock Value", totalValue.String()},
		{"Low Stock Items", lowStock},
	}
	for _, data := range summary {
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	return workbookBuffer(f)
}

// InvoiceWorkbook renders a tax invoice for one bulk sale.
func InvoiceWorkbook(inv Invoice) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	head := [][]interface{}{
		{"TAX INVOICE"},
		{"Customer", inv.Customer},
		{"Date", inv.Date.Format(csvTimeLayout)},
		{},
		{"Item", "Quantity", "Unit Price", "Tax %", "Line Total"},
	}
	row := 1
	for _, data := range head {
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	for _, l := range inv.Lines {
		data := []interface{}{
			l.ItemName,
			l.Quantity,
			l.UnitPrice.String(),
			l.TaxPercent.String(),
			l.LineTotal.String(),
		}
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	row++
	footer := [][]interface{}{
		{"Subtotal", inv.Subtotal.String()},
		{"Tax Amount", inv.TaxAmount.String()},
		{"Grand Total", inv.GrandTotal.String()},
	}
	for _, data := range footer {
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	return workbookBuffer(f)
}

// ActivityWorkbook renders the transaction log for one period: a summary
// block followed by the individual movements, newest first.
func ActivityWorkbook(periodLabel string, m core.PeriodMetrics, entries []ActivityEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	head := [][]interface{}{
		{"ACTIVITY REPORT", periodLabel},
		{},
		{"Received Qty", m.ReceivedQty, "Received Value", m.ReceivedValue.String()},
		{"Dispatched Qty", m.DispatchedQty, "Dispatched Value", m.DispatchedValue.String()},
		{"Damaged Qty", m.DamagedQty, "Damage Loss", m.DamageLoss.String()},
		{"Sales Revenue", m.SalesRevenue.String(), "Net Earnings", m.NetEarnings.String()},
		{},
		{"Date", "Type", "Item", "Quantity", "Price", "Total", "Party", "User"},
	}
	row := 1
	for _, data := range head {
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	for _, e := range entries {
		data := []interface{}{
			e.Tx.Date.Format(csvTimeLayout),
			string(e.Tx.Type),
			e.ItemName,
			e.Tx.Quantity,
			e.Tx.Price.String(),
			e.Tx.Value().String(),
			e.Tx.PartyName,
			e.Tx.UserEmail,
		}
		if err := writeRow(f, sheet, row, data); err != nil {
			return nil, err
		}
		row++
	}

	return workbookBuffer(f)
}

func writeRow(f *excelize.File, sheet string, row int, data []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &data); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func workbookBuffer(f *excelize.File) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
