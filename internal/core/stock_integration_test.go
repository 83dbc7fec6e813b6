package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"stockmaster/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_transactions, stock_items, chat_messages, users, warehouses CASCADE;

		INSERT INTO warehouses (id, name, location, type) VALUES ('wh-1', 'Main', 'Pune', 'General');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func countTransactions(t *testing.T, pool *pgxpool.Pool, itemID string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT count(*) FROM stock_transactions WHERE item_id = $1", itemID).Scan(&n)
	if err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return n
}

func TestStockService_CreateAndDispatch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewStockService(pool, core.NewChangeBus())

	item, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1",
		Name:        "Cement Bag",
		Category:    "Construction",
		Quantity:    10,
		Price:       decimal.NewFromInt(100),
		Source:      "ACME Suppliers",
		UserEmail:   "ops@example.com",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if countTransactions(t, pool, item.ID) != 1 {
		t.Errorf("opening quantity should be logged as an IN transaction")
	}

	res, err := svc.DispatchStock(ctx, item.ID, 4,
		decimal.NewFromInt(120), decimal.NewFromInt(18), "Acme Retail", "ops@example.com")
	if err != nil {
		t.Fatalf("DispatchStock: %v", err)
	}
	if res.Item.Quantity != 6 {
		t.Errorf("quantity after dispatch = %d, want 6", res.Item.Quantity)
	}
	if res.Transaction.CostPrice == nil || !res.Transaction.CostPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("dispatch must snapshot the unit cost at sale time")
	}
	if !res.Transaction.Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("dispatch price = %s, want selling price 120", res.Transaction.Price)
	}
}

func TestStockService_DispatchRejectsOverdraw(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewStockService(pool, core.NewChangeBus())

	item, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1",
		Name:        "Paint Tin",
		Quantity:    3,
		Price:       decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err = svc.DispatchStock(ctx, item.ID, 5,
		decimal.NewFromInt(60), decimal.Zero, "Customer", "")
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The failed dispatch must leave no trace: neither ledger nor log moved.
	got, err := svc.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Quantity != 3 {
		t.Errorf("quantity changed on failed dispatch: %d", got.Quantity)
	}
	if countTransactions(t, pool, item.ID) != 1 {
		t.Errorf("failed dispatch appended a log entry")
	}

	_, err = svc.DispatchStock(ctx, item.ID, 0,
		decimal.NewFromInt(60), decimal.Zero, "Customer", "")
	if !errors.Is(err, core.ErrQuantityNotPositive) {
		t.Errorf("zero quantity: expected ErrQuantityNotPositive, got %v", err)
	}
}

func TestStockService_DamageUsesUnitCost(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewStockService(pool, core.NewChangeBus())

	item, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1",
		Name:        "Glass Pane",
		Quantity:    8,
		Price:       decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	res, err := svc.ReportDamage(ctx, item.ID, 2, "dropped in transit", "ops@example.com")
	if err != nil {
		t.Fatalf("ReportDamage: %v", err)
	}
	if res.Item.Quantity != 6 {
		t.Errorf("quantity after damage = %d, want 6", res.Item.Quantity)
	}
	if !res.Transaction.Value().Equal(decimal.NewFromInt(100)) {
		t.Errorf("damage value = %s, want 100 (2 × unit cost 50)", res.Transaction.Value())
	}
	if res.Transaction.PartyName != "dropped in transit" {
		t.Errorf("damage reason not recorded: %q", res.Transaction.PartyName)
	}
}

func TestStockService_BulkDispatchIsAtomic(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewStockService(pool, core.NewChangeBus())

	a, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1", Name: "Item A", Quantity: 10, Price: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	b, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1", Name: "Item B", Quantity: 2, Price: decimal.NewFromInt(20),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Second line overdraws, so the whole sale must roll back.
	_, err = svc.BulkDispatch(ctx, []core.DispatchLine{
		{ItemID: a.ID, Quantity: 5, SellPrice: decimal.NewFromInt(15)},
		{ItemID: b.ID, Quantity: 3, SellPrice: decimal.NewFromInt(25)},
	}, "Bulk Buyer", "sales@example.com")
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	gotA, _ := svc.GetItem(ctx, a.ID)
	if gotA.Quantity != 10 {
		t.Errorf("item A moved despite rollback: %d", gotA.Quantity)
	}

	// A valid sale commits every line.
	results, err := svc.BulkDispatch(ctx, []core.DispatchLine{
		{ItemID: a.ID, Quantity: 5, SellPrice: decimal.NewFromInt(15), TaxPercent: decimal.NewFromInt(18)},
		{ItemID: b.ID, Quantity: 2, SellPrice: decimal.NewFromInt(25), TaxPercent: decimal.NewFromInt(18)},
	}, "Bulk Buyer", "sales@example.com")
	if err != nil {
		t.Fatalf("BulkDispatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Item.Quantity != 5 || results[1].Item.Quantity != 0 {
		t.Errorf("quantities after bulk sale = %d, %d; want 5, 0",
			results[0].Item.Quantity, results[1].Item.Quantity)
	}
}

func TestStockService_DeleteKeepsHistory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewStockService(pool, core.NewChangeBus())

	item, err := svc.CreateItem(ctx, core.CreateItemInput{
		WarehouseID: "wh-1", Name: "Ephemeral", Quantity: 5, Price: decimal.NewFromInt(9),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := svc.GetItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if countTransactions(t, pool, item.ID) != 1 {
		t.Errorf("item history must survive item deletion")
	}

	if err := svc.DeleteItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}
