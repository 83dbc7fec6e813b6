package app

import (
	"context"

	"stockmaster/internal/core"
)

// ApplicationService is the single interface presentation adapters call. It
// decouples HTTP handling from business logic; implementations contain no
// request parsing and no response formatting.
type ApplicationService interface {
	// ListWarehouses returns all warehouses.
	ListWarehouses(ctx context.Context) (*WarehouseListResult, error)

	// CreateWarehouse adds a warehouse. whType defaults to "General".
	CreateWarehouse(ctx context.Context, name, location, whType string) (*core.Warehouse, error)

	// DeleteWarehouse removes the warehouse record; its items are orphaned,
	// not deleted.
	DeleteWarehouse(ctx context.Context, id string) error

	// ListItems returns the stock ledger scoped to warehouseID ("" = all).
	ListItems(ctx context.Context, warehouseID string) (*ItemListResult, error)

	// GetItem returns one ledger row.
	GetItem(ctx context.Context, id string) (*ItemResult, error)

	// CreateItem adds a new item and books its opening quantity as an IN
	// transaction.
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error)

	// ReceiveStock restocks an existing item.
	ReceiveStock(ctx context.Context, req ReceiveRequest) (*ItemResult, error)

	// DispatchStock sells stock; fails with core.ErrInsufficientStock when
	// the requested quantity exceeds what is available.
	DispatchStock(ctx context.Context, req DispatchRequest) (*DispatchOutcome, error)

	// ReportDamage writes off damaged stock at unit cost.
	ReportDamage(ctx context.Context, req DamageRequest) (*DispatchOutcome, error)

	// DeleteItem removes an item; its transaction history is retained.
	DeleteItem(ctx context.Context, id string) error

	// BulkReceive books a multi-line goods receipt.
	BulkReceive(ctx context.Context, req BulkReceiveRequest) (*ItemListResult, error)

	// BulkDispatch sells several lines to one customer atomically and
	// returns the invoice data.
	BulkDispatch(ctx context.Context, req BulkDispatchRequest) (*InvoiceResult, error)

	// ListHistory returns log entries matching the request, newest first,
	// with item names resolved ("Unknown Item" for deleted items).
	ListHistory(ctx context.Context, req HistoryRequest) (*HistoryResult, error)

	// GetDashboard computes snapshot and period metrics for one scope.
	GetDashboard(ctx context.Context, req HistoryRequest) (*DashboardResult, error)

	// ListChat returns the team chat log, oldest first.
	ListChat(ctx context.Context, limit int) ([]core.ChatMessage, error)

	// PostChat appends a team chat message.
	PostChat(ctx context.Context, sender, content string) (*core.ChatMessage, error)

	// AskAssistant sends a question to the AI assistant with the scoped
	// ledger as context, persists both sides of the exchange into the team
	// chat, and executes an embedded add-item directive if one is returned.
	AskAssistant(ctx context.Context, req AssistantRequest) (*AssistantResult, error)
}
