package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"stockmaster/internal/core"
)

func testItems() []core.StockItem {
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return []core.StockItem{
		{Name: "Cement Bag", Category: "Construction", Quantity: 10, Price: decimal.NewFromInt(100), MinThreshold: 5, LastUpdated: ts},
		{Name: "Paint Tin", Category: "Construction", Quantity: 3, Price: decimal.NewFromInt(50), MinThreshold: 5, LastUpdated: ts},
	}
}

func TestWriteStockCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStockCSV(&buf, testItems()); err != nil {
		t.Fatalf("WriteStockCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 items", len(records))
	}
	if records[0][0] != "Item Name" || records[0][4] != "Total Value" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "Cement Bag" || records[1][4] != "1000" {
		t.Errorf("row 1 = %v, want Cement Bag with value 1000", records[1])
	}
	if records[2][2] != "3" || records[2][4] != "150" {
		t.Errorf("row 2 = %v", records[2])
	}
}

func TestStockWorkbook(t *testing.T) {
	buf, err := StockWorkbook(testItems())
	if err != nil {
		t.Fatalf("StockWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if got, _ := f.GetCellValue(sheet, "A1"); got != "Item Name" {
		t.Errorf("A1 = %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "A2"); got != "Cement Bag" {
		t.Errorf("A2 = %q", got)
	}
	// Summary block sits one blank row under the items.
	if got, _ := f.GetCellValue(sheet, "A5"); got != "Total Items" {
		t.Errorf("A5 = %q, want summary start", got)
	}
	if got, _ := f.GetCellValue(sheet, "B7"); got != "1150" {
		t.Errorf("total stock value = %q, want 1150", got)
	}
}

func TestInvoiceWorkbook(t *testing.T) {
	inv := Invoice{
		Customer: "Acme Retail",
		Date:     time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Lines: []InvoiceLine{
			{ItemName: "Cement Bag", Quantity: 5, UnitPrice: decimal.NewFromInt(120), TaxPercent: decimal.NewFromInt(18), LineTotal: decimal.NewFromInt(600)},
		},
		Subtotal:   decimal.NewFromInt(600),
		TaxAmount:  decimal.NewFromInt(108),
		GrandTotal: decimal.NewFromInt(708),
	}

	buf, err := InvoiceWorkbook(inv)
	if err != nil {
		t.Fatalf("InvoiceWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if got, _ := f.GetCellValue(sheet, "A1"); got != "TAX INVOICE" {
		t.Errorf("A1 = %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B2"); got != "Acme Retail" {
		t.Errorf("customer = %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "A6"); got != "Cement Bag" {
		t.Errorf("first line = %q", got)
	}
	// Footer: subtotal, tax, grand total.
	if got, _ := f.GetCellValue(sheet, "B10"); got != "708" {
		t.Errorf("grand total = %q, want 708", got)
	}
}

func TestActivityWorkbook(t *testing.T) {
	m := core.PeriodMetrics{
		SalesRevenue:    decimal.NewFromInt(600),
		CostOfGoodsSold: decimal.NewFromInt(500),
		NetEarnings:     decimal.NewFromInt(100),
		DamageLoss:      decimal.Zero,
		DispatchedQty:   5,
		ReceivedValue:   decimal.Zero,
		DispatchedValue: decimal.NewFromInt(600),
		DamagedValue:    decimal.Zero,
	}
	entries := []ActivityEntry{
		{
			Tx: core.StockTransaction{
				Type:      core.TxOut,
				Quantity:  5,
				Price:     decimal.NewFromInt(120),
				Date:      time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
				PartyName: "Acme Retail",
			},
			ItemName: "Cement Bag",
		},
	}

	buf, err := ActivityWorkbook("1week", m, entries)
	if err != nil {
		t.Fatalf("ActivityWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if got, _ := f.GetCellValue(sheet, "B1"); got != "1week" {
		t.Errorf("period label = %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B6"); got != "600" {
		t.Errorf("sales revenue = %q, want 600", got)
	}
	if got, _ := f.GetCellValue(sheet, "C9"); got != "Cement Bag" {
		t.Errorf("first movement item = %q", got)
	}
}
