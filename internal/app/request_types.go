package app

import (
	"github.com/shopspring/decimal"
)

// CreateItemRequest is the input for adding a new stock item.
type CreateItemRequest struct {
	WarehouseID  string
	Name         string
	Category     string
	Quantity     int64
	Price        decimal.Decimal
	MinThreshold int64
	Description  string
	Source       string
	UserEmail    string
}

// ReceiveRequest is the input for restocking an existing item.
type ReceiveRequest struct {
	ItemID    string
	Quantity  int64
	Source    string
	UserEmail string
}

// DispatchRequest is the input for selling stock.
type DispatchRequest struct {
	ItemID     string
	Quantity   int64
	SellPrice  decimal.Decimal
	TaxPercent decimal.Decimal
	Customer   string
	UserEmail  string
}

// DamageRequest is the input for writing off damaged stock.
type DamageRequest struct {
	ItemID    string
	Quantity  int64
	Reason    string
	UserEmail string
}

// BulkReceiveRequest books several receipt lines against one warehouse.
type BulkReceiveRequest struct {
	WarehouseID string
	Lines       []ReceiveLineInput
	UserEmail   string
}

// ReceiveLineInput is one line of a BulkReceiveRequest. Set ItemID to restock
// an existing item, or Name (plus Category and Price) to create a new one.
type ReceiveLineInput struct {
	ItemID       string
	Name         string
	Category     string
	Price        decimal.Decimal
	MinThreshold int64
	Quantity     int64
	Source       string
}

// BulkDispatchRequest sells several lines to one customer atomically.
type BulkDispatchRequest struct {
	Customer  string
	UserEmail string
	Lines     []DispatchLineInput
}

// DispatchLineInput is one line of a BulkDispatchRequest.
type DispatchLineInput struct {
	ItemID     string
	Quantity   int64
	SellPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

// HistoryRequest selects a slice of the transaction log.
type HistoryRequest struct {
	WarehouseID string // empty = global view
	ItemID      string
	RangeKind   string // today, yesterday, 3days, 1week, 1month, 1year, custom, all
	RangeStart  string // custom only, 2006-01-02
	RangeEnd    string // custom only, 2006-01-02
}

// AssistantRequest is one question to the AI assistant.
type AssistantRequest struct {
	Question    string
	WarehouseID string // scope for inventory context and directive execution
	UserEmail   string
}
