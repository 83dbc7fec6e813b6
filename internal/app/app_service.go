package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"stockmaster/internal/ai"
	"stockmaster/internal/core"
)

// recentTxCount caps the activity feed on the dashboard.
const recentTxCount = 10

// chatHistoryForPrompt is how many recent chat messages accompany an
// assistant question.
const chatHistoryForPrompt = 20

type appService struct {
	warehouses core.WarehouseService
	stock      core.StockService
	txlog      core.TransactionService
	chat       core.ChatService
	assistant  ai.AssistantService
	loc        *time.Location
	log        *slog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
// loc sets the calendar-day boundaries for all date-range filtering.
func NewAppService(
	warehouses core.WarehouseService,
	stock core.StockService,
	txlog core.TransactionService,
	chat core.ChatService,
	assistant ai.AssistantService,
	loc *time.Location,
	log *slog.Logger,
) ApplicationService {
	return &appService{
		warehouses: warehouses,
		stock:      stock,
		txlog:      txlog,
		chat:       chat,
		assistant:  assistant,
		loc:        loc,
		log:        log,
	}
}

func (s *appService) ListWarehouses(ctx context.Context) (*WarehouseListResult, error) {
	ws, err := s.warehouses.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: ws}, nil
}

func (s *appService) CreateWarehouse(ctx context.Context, name, location, whType string) (*core.Warehouse, error) {
	return s.warehouses.CreateWarehouse(ctx, name, location, whType)
}

func (s *appService) DeleteWarehouse(ctx context.Context, id string) error {
	return s.warehouses.DeleteWarehouse(ctx, id)
}

func (s *appService) ListItems(ctx context.Context, warehouseID string) (*ItemListResult, error) {
	items, err := s.stock.ListItems(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items, WarehouseID: warehouseID}, nil
}

func (s *appService) GetItem(ctx context.Context, id string) (*ItemResult, error) {
	it, err := s.stock.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: it}, nil
}

func (s *appService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error) {
	it, err := s.stock.CreateItem(ctx, core.CreateItemInput{
		WarehouseID:  req.WarehouseID,
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Price:        req.Price,
		MinThreshold: req.MinThreshold,
		Description:  req.Description,
		Source:       req.Source,
		UserEmail:    req.UserEmail,
	})
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: it}, nil
}

func (s *appService) ReceiveStock(ctx context.Context, req ReceiveRequest) (*ItemResult, error) {
	it, err := s.stock.ReceiveStock(ctx, req.ItemID, req.Quantity, req.Source, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: it}, nil
}

func (s *appService) DispatchStock(ctx context.Context, req DispatchRequest) (*DispatchOutcome, error) {
	res, err := s.stock.DispatchStock(ctx, req.ItemID, req.Quantity, req.SellPrice, req.TaxPercent, req.Customer, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return &DispatchOutcome{Item: &res.Item, Transaction: &res.Transaction}, nil
}

func (s *appService) ReportDamage(ctx context.Context, req DamageRequest) (*DispatchOutcome, error) {
	res, err := s.stock.ReportDamage(ctx, req.ItemID, req.Quantity, req.Reason, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return &DispatchOutcome{Item: &res.Item, Transaction: &res.Transaction}, nil
}

func (s *appService) DeleteItem(ctx context.Context, id string) error {
	return s.stock.DeleteItem(ctx, id)
}

func (s *appService) BulkReceive(ctx context.Context, req BulkReceiveRequest) (*ItemListResult, error) {
	lines := make([]core.ReceiveLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.ReceiveLine{
			ItemID:       l.ItemID,
			Name:         l.Name,
			Category:     l.Category,
			Price:        l.Price,
			MinThreshold: l.MinThreshold,
			Quantity:     l.Quantity,
			Source:       l.Source,
		}
	}
	items, err := s.stock.BulkReceive(ctx, req.WarehouseID, lines, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items, WarehouseID: req.WarehouseID}, nil
}

func (s *appService) BulkDispatch(ctx context.Context, req BulkDispatchRequest) (*InvoiceResult, error) {
	lines := make([]core.DispatchLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.DispatchLine{
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			SellPrice:  l.SellPrice,
			TaxPercent: l.TaxPercent,
		}
	}
	results, err := s.stock.BulkDispatch(ctx, lines, req.Customer, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{
		Customer: req.Customer,
		Lines:    results,
		Totals:   invoiceTotals(results),
	}, nil
}

// invoiceTotals sums the line amounts and their tax.
func invoiceTotals(lines []core.DispatchResult) InvoiceTotals {
	t := InvoiceTotals{
		Subtotal:  decimal.Zero,
		TaxAmount: decimal.Zero,
	}
	hundred := decimal.NewFromInt(100)
	for _, l := range lines {
		lineTotal := l.Transaction.Value()
		t.Subtotal = t.Subtotal.Add(lineTotal)
		if l.Transaction.TaxPercent != nil {
			t.TaxAmount = t.TaxAmount.Add(lineTotal.Mul(*l.Transaction.TaxPercent).Div(hundred))
		}
	}
	t.GrandTotal = t.Subtotal.Add(t.TaxAmount)
	return t
}

func (s *appService) ListHistory(ctx context.Context, req HistoryRequest) (*HistoryResult, error) {
	r, err := core.ParseRange(req.RangeKind, req.RangeStart, req.RangeEnd, s.loc)
	if err != nil {
		return nil, err
	}
	txns, err := s.txlog.ListTransactions(ctx, core.TransactionQuery{
		WarehouseID: req.WarehouseID,
		ItemID:      req.ItemID,
		Range:       r,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.stock.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}
	return &HistoryResult{
		Entries:     resolveNames(txns, core.NewItemNameIndex(items)),
		WarehouseID: req.WarehouseID,
	}, nil
}

func (s *appService) GetDashboard(ctx context.Context, req HistoryRequest) (*DashboardResult, error) {
	r, err := core.ParseRange(req.RangeKind, req.RangeStart, req.RangeEnd, s.loc)
	if err != nil {
		return nil, err
	}

	// Full ledger once; scoping is a pure in-memory refinement.
	allItems, err := s.stock.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}
	scoped := core.ScopeItems(allItems, req.WarehouseID)

	txns, err := s.txlog.ListTransactions(ctx, core.TransactionQuery{
		WarehouseID: req.WarehouseID,
		Range:       r,
	})
	if err != nil {
		return nil, err
	}

	recent := txns
	if len(recent) > recentTxCount {
		recent = recent[:recentTxCount]
	}

	return &DashboardResult{
		Snapshot: core.ComputeSnapshotMetrics(scoped),
		Period:   core.ComputePeriodMetrics(txns, scoped),
		Recent:   resolveNames(recent, core.NewItemNameIndex(allItems)),
	}, nil
}

func resolveNames(txns []core.StockTransaction, idx core.ItemNameIndex) []HistoryEntry {
	entries := make([]HistoryEntry, len(txns))
	for i, t := range txns {
		entries[i] = HistoryEntry{StockTransaction: t, ItemName: idx.Name(t.ItemID)}
	}
	return entries
}

func (s *appService) ListChat(ctx context.Context, limit int) ([]core.ChatMessage, error) {
	return s.chat.ListMessages(ctx, limit)
}

func (s *appService) PostChat(ctx context.Context, sender, content string) (*core.ChatMessage, error) {
	return s.chat.AppendMessage(ctx, sender, core.RoleUser, content)
}

func (s *appService) AskAssistant(ctx context.Context, req AssistantRequest) (*AssistantResult, error) {
	items, err := s.stock.ListItems(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	history, err := s.chat.ListMessages(ctx, chatHistoryForPrompt)
	if err != nil {
		return nil, err
	}

	if _, err := s.chat.AppendMessage(ctx, req.UserEmail, core.RoleUser, req.Question); err != nil {
		return nil, err
	}

	reply, err := s.assistant.Ask(ctx, req.Question, items, history)
	if err != nil {
		// The user gets a fixed apology; the cause goes to the log only.
		s.log.Error("assistant request failed", "error", err)
		if _, aerr := s.chat.AppendMessage(ctx, "assistant", core.RoleAssistant, ai.ApologyMessage); aerr != nil {
			return nil, aerr
		}
		return &AssistantResult{Answer: ai.ApologyMessage}, nil
	}

	result := &AssistantResult{Answer: reply.Answer}
	if reply.Directive != nil {
		in, derr := reply.Directive.CreateInput(req.WarehouseID, req.UserEmail)
		if derr == nil {
			var it *core.StockItem
			it, derr = s.stock.CreateItem(ctx, in)
			if derr == nil {
				result.AddedItem = it
				result.Answer = fmt.Sprintf("%s\n\nAdded %q to stock (qty %d).",
					reply.Answer, it.Name, it.Quantity)
			}
		}
		if derr != nil {
			s.log.Warn("assistant directive rejected", "error", derr)
		}
	}

	if _, err := s.chat.AppendMessage(ctx, "assistant", core.RoleAssistant, result.Answer); err != nil {
		return nil, err
	}
	return result, nil
}
