package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateItemInput is the payload for adding a new ledger item. The opening
// quantity is booked as an IN transaction so the log stays complete.
type CreateItemInput struct {
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

// ReceiveLine is one line of a bulk goods receipt.
type ReceiveLine struct {
	// Either ItemID (restock) or Name+Category+Price (new item) is set.
	ItemID       string
	Name         string
	Category     string
	Price        decimal.Decimal
	MinThreshold int64
	Quantity     int64
	Source       string
}

// DispatchLine is one line of a bulk sale.
type DispatchLine struct {
	ItemID     string
	Quantity   int64
	SellPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

// DispatchResult describes a completed dispatch: the updated item and the
// appended OUT transaction, enough to render an invoice line.
type DispatchResult struct {
	Item        StockItem
	Transaction StockTransaction
}

// StockService owns the stock ledger and the append-only transaction log.
//
// Every mutation runs as a single database transaction: the ledger quantity
// change and the log append commit together or not at all, and outbound
// quantity checks happen against a row locked FOR UPDATE, so concurrent
// dispatches cannot drive an item negative.
type StockService interface {
	CreateItem(ctx context.Context, in CreateItemInput) (*StockItem, error)
	GetItem(ctx context.Context, id string) (*StockItem, error)
	// ListItems returns the ledger, scoped to a warehouse when warehouseID
	// is non-empty.
	ListItems(ctx context.Context, warehouseID string) ([]StockItem, error)

	// ReceiveStock increases quantity and appends an IN transaction.
	// Always legal for qty > 0; there is no upper bound.
	ReceiveStock(ctx context.Context, itemID string, qty int64, source, userEmail string) (*StockItem, error)

	// DispatchStock decreases quantity and appends an OUT transaction
	// carrying the selling price, the tax rate, and the unit cost at time
	// of sale (costPrice). Legal only for 0 < qty <= current quantity.
	DispatchStock(ctx context.Context, itemID string, qty int64, sellPrice, taxPercent decimal.Decimal, customer, userEmail string) (*DispatchResult, error)

	// ReportDamage decreases quantity and appends a DAMAGE transaction with
	// price = unit cost. Legal only for 0 < qty <= current quantity.
	ReportDamage(ctx context.Context, itemID string, qty int64, reason, userEmail string) (*DispatchResult, error)

	// DeleteItem removes the item from the ledger unconditionally. Its
	// transaction history is retained with a now-dangling itemId.
	DeleteItem(ctx context.Context, itemID string) error

	// BulkReceive books several receipt lines in one call. Lines are
	// applied independently; the first failing line aborts the rest.
	BulkReceive(ctx context.Context, warehouseID string, lines []ReceiveLine, userEmail string) ([]StockItem, error)

	// BulkDispatch sells several lines to one customer atomically: all
	// lines commit together or none do. The results feed invoice export.
	BulkDispatch(ctx context.Context, lines []DispatchLine, customer, userEmail string) ([]DispatchResult, error)
}

type stockService struct {
	pool *pgxpool.Pool
	bus  *ChangeBus
}

// NewStockService constructs a StockService backed by PostgreSQL.
func NewStockService(pool *pgxpool.Pool, bus *ChangeBus) StockService {
	return &stockService{pool: pool, bus: bus}
}

const itemColumns = `id, warehouse_id, name, category, quantity, price, min_threshold, last_updated, description, source`

func scanItem(row pgx.Row) (*StockItem, error) {
	it := &StockItem{}
	err := row.Scan(&it.ID, &it.WarehouseID, &it.Name, &it.Category, &it.Quantity,
		&it.Price, &it.MinThreshold, &it.LastUpdated, &it.Description, &it.Source)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *stockService) CreateItem(ctx context.Context, in CreateItemInput) (*StockItem, error) {
	if strings.TrimSpace(in.Name) == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("item name and warehouse are required: %w", ErrMissingField)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("opening quantity %d: %w", in.Quantity, ErrQuantityNotPositive)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrMissingField)
	}
	if in.Category == "" {
		in.Category = "General"
	}
	if in.MinThreshold <= 0 {
		in.MinThreshold = 5
	}

	now := time.Now().UTC()
	it := &StockItem{
		ID:           uuid.NewString(),
		WarehouseID:  in.WarehouseID,
		Name:         in.Name,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		MinThreshold: in.MinThreshold,
		LastUpdated:  now,
		Description:  in.Description,
		Source:       in.Source,
	}

	party := in.Source
	if party == "" {
		party = "Unknown"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_items (id, warehouse_id, name, category, quantity, price, min_threshold, last_updated, description, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, it.ID, it.WarehouseID, it.Name, it.Category, it.Quantity, it.Price, it.MinThreshold, it.LastUpdated, it.Description, it.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	if err := appendTransaction(ctx, tx, StockTransaction{
		ID:        uuid.NewString(),
		ItemID:    it.ID,
		Type:      TxIn,
		Quantity:  in.Quantity,
		Price:     in.Price,
		CostPrice: &in.Price,
		Date:      now,
		PartyName: party,
		UserEmail: in.UserEmail,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item creation: %w", err)
	}

	s.publishMutation(it, TxIn)
	return it, nil
}

func (s *stockService) GetItem(ctx context.Context, id string) (*StockItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM stock_items WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	return it, nil
}

func (s *stockService) ListItems(ctx context.Context, warehouseID string) ([]StockItem, error) {
	query := "SELECT " + itemColumns + " FROM stock_items"
	args := []any{}
	if warehouseID != "" {
		query += " WHERE warehouse_id = $1"
		args = append(args, warehouseID)
	}
	query += " ORDER BY name, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []StockItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *stockService) ReceiveStock(ctx context.Context, itemID string, qty int64, source, userEmail string) (*StockItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("receive quantity %d: %w", qty, ErrQuantityNotPositive)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	it, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	it.Quantity += qty
	it.LastUpdated = now
	if _, err := tx.Exec(ctx, `
		UPDATE stock_items SET quantity = $1, last_updated = $2 WHERE id = $3
	`, it.Quantity, now, itemID); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	party := source
	if party == "" {
		party = "Stock Update"
	}
	if err := appendTransaction(ctx, tx, StockTransaction{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Type:      TxIn,
		Quantity:  qty,
		Price:     it.Price,
		CostPrice: &it.Price,
		Date:      now,
		PartyName: party,
		UserEmail: userEmail,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit receipt: %w", err)
	}

	s.publishMutation(it, TxIn)
	return it, nil
}

func (s *stockService) DispatchStock(ctx context.Context, itemID string, qty int64, sellPrice, taxPercent decimal.Decimal, customer, userEmail string) (*DispatchResult, error) {
	if strings.TrimSpace(customer) == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrMissingField)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res, err := s.deductTx(ctx, tx, outboundSpec{
		itemID:     itemID,
		qty:        qty,
		txType:     TxOut,
		sellPrice:  &sellPrice,
		taxPercent: &taxPercent,
		party:      customer,
		userEmail:  userEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit dispatch: %w", err)
	}

	s.publishMutation(&res.Item, TxOut)
	return res, nil
}

func (s *stockService) ReportDamage(ctx context.Context, itemID string, qty int64, reason, userEmail string) (*DispatchResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("damage reason is required: %w", ErrMissingField)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res, err := s.deductTx(ctx, tx, outboundSpec{
		itemID:    itemID,
		qty:       qty,
		txType:    TxDamage,
		party:     reason,
		userEmail: userEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit damage report: %w", err)
	}

	s.publishMutation(&res.Item, TxDamage)
	return res, nil
}

func (s *stockService) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM stock_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	// History rows keep their item_id; it is a weak reference from now on.
	s.bus.Publish(ChangeEvent{Kind: ChangeItem, ItemID: itemID})
	return nil
}

func (s *stockService) BulkReceive(ctx context.Context, warehouseID string, lines []ReceiveLine, userEmail string) ([]StockItem, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no receipt lines: %w", ErrMissingField)
	}

	var out []StockItem
	for i, line := range lines {
		var (
			it  *StockItem
			err error
		)
		if line.ItemID != "" {
			it, err = s.ReceiveStock(ctx, line.ItemID, line.Quantity, line.Source, userEmail)
		} else {
			it, err = s.CreateItem(ctx, CreateItemInput{
				WarehouseID:  warehouseID,
				Name:         line.Name,
				Category:     line.Category,
				Quantity:     line.Quantity,
				Price:        line.Price,
				MinThreshold: line.MinThreshold,
				Source:       line.Source,
				UserEmail:    userEmail,
			})
		}
		if err != nil {
			return out, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, *it)
	}
	return out, nil
}

func (s *stockService) BulkDispatch(ctx context.Context, lines []DispatchLine, customer, userEmail string) ([]DispatchResult, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no dispatch lines: %w", ErrMissingField)
	}
	if strings.TrimSpace(customer) == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrMissingField)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := make([]DispatchResult, 0, len(lines))
	for i, line := range lines {
		sellPrice := line.SellPrice
		taxPercent := line.TaxPercent
		res, err := s.deductTx(ctx, tx, outboundSpec{
			itemID:     line.ItemID,
			qty:        line.Quantity,
			txType:     TxOut,
			sellPrice:  &sellPrice,
			taxPercent: &taxPercent,
			party:      customer,
			userEmail:  userEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		results = append(results, *res)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bulk dispatch: %w", err)
	}

	for i := range results {
		s.publishMutation(&results[i].Item, TxOut)
	}
	return results, nil
}

// ── internals ─────────────────────────────────────────────────────────────────

// outboundSpec parameterizes the shared OUT/DAMAGE deduction path.
type outboundSpec struct {
	itemID     string
	qty        int64
	txType     TransactionType
	sellPrice  *decimal.Decimal // OUT only
	taxPercent *decimal.Decimal // OUT only
	party      string
	userEmail  string
}

// lockItem fetches the item row FOR UPDATE within tx.
func lockItem(ctx context.Context, tx pgx.Tx, itemID string) (*StockItem, error) {
	it, err := scanItem(tx.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM stock_items WHERE id = $1 FOR UPDATE", itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock item: %w", err)
	}
	return it, nil
}

// deductTx validates and applies a quantity deduction plus log append within
// the caller's transaction. The FOR UPDATE lock makes the available-quantity
// check authoritative under concurrency.
func (s *stockService) deductTx(ctx context.Context, tx pgx.Tx, spec outboundSpec) (*DispatchResult, error) {
	if spec.qty <= 0 {
		return nil, fmt.Errorf("%s quantity %d: %w", strings.ToLower(string(spec.txType)), spec.qty, ErrQuantityNotPositive)
	}

	it, err := lockItem(ctx, tx, spec.itemID)
	if err != nil {
		return nil, err
	}
	if spec.qty > it.Quantity {
		return nil, fmt.Errorf("%s has %d available, requested %d: %w",
			it.Name, it.Quantity, spec.qty, ErrInsufficientStock)
	}

	now := time.Now().UTC()
	it.Quantity -= spec.qty
	it.LastUpdated = now
	if _, err := tx.Exec(ctx, `
		UPDATE stock_items SET quantity = $1, last_updated = $2 WHERE id = $3
	`, it.Quantity, now, spec.itemID); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	unitCost := it.Price
	record := StockTransaction{
		ID:        uuid.NewString(),
		ItemID:    spec.itemID,
		Type:      spec.txType,
		Quantity:  spec.qty,
		Price:     unitCost, // DAMAGE: price is the unit cost
		CostPrice: &unitCost,
		Date:      now,
		PartyName: spec.party,
		UserEmail: spec.userEmail,
	}
	if spec.txType == TxOut {
		record.Price = *spec.sellPrice
		if spec.taxPercent != nil && !spec.taxPercent.IsZero() {
			tp := *spec.taxPercent
			record.TaxPercent = &tp
		}
	}

	if err := appendTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	return &DispatchResult{Item: *it, Transaction: record}, nil
}

// appendTransaction inserts one immutable log row within tx.
func appendTransaction(ctx context.Context, tx pgx.Tx, t StockTransaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_transactions (id, item_id, type, quantity, price, cost_price, tax_percent, date, party_name, user_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, t.ItemID, t.Type, t.Quantity, t.Price, t.CostPrice, t.TaxPercent, t.Date, t.PartyName, t.UserEmail)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (s *stockService) publishMutation(it *StockItem, txType TransactionType) {
	s.bus.Publish(ChangeEvent{Kind: ChangeItem, WarehouseID: it.WarehouseID, ItemID: it.ID})
	s.bus.Publish(ChangeEvent{Kind: ChangeTransaction, WarehouseID: it.WarehouseID, ItemID: it.ID, TxType: txType})
}
