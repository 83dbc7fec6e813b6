package app

import (
	"github.com/shopspring/decimal"

	"stockmaster/internal/core"
)

// ItemResult is returned by single-item mutations.
type ItemResult struct {
	Item *core.StockItem
}

// ItemListResult is returned by ListItems and BulkReceive.
type ItemListResult struct {
	Items       []core.StockItem
	WarehouseID string
}

// DispatchOutcome is returned by dispatch and damage operations.
type DispatchOutcome struct {
	Item        *core.StockItem
	Transaction *core.StockTransaction
}

// InvoiceResult is returned by BulkDispatch: the per-line outcomes plus the
// footer totals a tax invoice needs.
type InvoiceResult struct {
	Customer string
	Lines    []core.DispatchResult
	Totals   InvoiceTotals
}

// InvoiceTotals are the footer amounts of a tax invoice.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// HistoryEntry is one transaction with its display name resolved.
type HistoryEntry struct {
	core.StockTransaction
	ItemName string `json:"itemName"`
}

// HistoryResult is returned by ListHistory, newest first.
type HistoryResult struct {
	Entries     []HistoryEntry
	WarehouseID string
}

// DashboardResult bundles the reconciliation views for one scope and period.
type DashboardResult struct {
	Snapshot core.SnapshotMetrics
	Period   core.PeriodMetrics
	Recent   []HistoryEntry
}

// AssistantResult is one assistant answer; AddedItem is set when the answer
// carried an add directive that was executed.
type AssistantResult struct {
	Answer    string
	AddedItem *core.StockItem
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse
}
