package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionQuery narrows a transaction listing. Zero value means the full
// global log.
type TransactionQuery struct {
	WarehouseID string
	ItemID      string
	Range       DateRange
}

// TransactionService reads the append-only transaction log. There are no
// update or delete operations: corrections are new compensating entries.
type TransactionService interface {
	// ListTransactions returns log entries matching q, newest first.
	// Warehouse scoping resolves through the item table, so transactions of
	// deleted items only appear in the global (unscoped) view.
	ListTransactions(ctx context.Context, q TransactionQuery) ([]StockTransaction, error)

	// ListForItem returns the full movement history of one item, newest
	// first. Works for deleted items too.
	ListForItem(ctx context.Context, itemID string) ([]StockTransaction, error)
}

type transactionService struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewTransactionService constructs a TransactionService backed by PostgreSQL.
// loc sets the calendar-day boundaries used by named date ranges.
func NewTransactionService(pool *pgxpool.Pool, loc *time.Location) TransactionService {
	return &transactionService{pool: pool, loc: loc}
}

const txColumns = `t.id, t.item_id, t.type, t.quantity, t.price, t.cost_price, t.tax_percent, t.date, t.party_name, t.user_email`

func (s *transactionService) ListTransactions(ctx context.Context, q TransactionQuery) ([]StockTransaction, error) {
	query := "SELECT " + txColumns + " FROM stock_transactions t"
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.WarehouseID != "" {
		query += " JOIN stock_items i ON i.id = t.item_id"
		where = append(where, "i.warehouse_id = "+arg(q.WarehouseID))
	}
	if q.ItemID != "" {
		where = append(where, "t.item_id = "+arg(q.ItemID))
	}

	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY t.date DESC, t.id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	// Date filtering stays in Go: range semantics are calendar-day bounds in
	// the configured timezone, which SQL date truncation would get wrong for
	// non-UTC zones.
	return FilterByRange(txns, q.Range, time.Now(), s.loc), nil
}

func (s *transactionService) ListForItem(ctx context.Context, itemID string) ([]StockTransaction, error) {
	return s.ListTransactions(ctx, TransactionQuery{ItemID: itemID})
}

func scanTransactions(rows pgx.Rows) ([]StockTransaction, error) {
	var txns []StockTransaction
	for rows.Next() {
		var t StockTransaction
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Type, &t.Quantity, &t.Price,
			&t.CostPrice, &t.TaxPercent, &t.Date, &t.PartyName, &t.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
