package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockmaster/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputePeriodMetrics_SaleProfit(t *testing.T) {
	// 5 units bought at 100, sold at 120 with 18% tax on the invoice.
	ledger := []core.StockItem{
		{ID: "item-1", Name: "Widget", Price: dec("100"), Quantity: 5},
	}
	txns := []core.StockTransaction{
		{
			ItemID:     "item-1",
			Type:       core.TxOut,
			Quantity:   5,
			Price:      dec("120"),
			CostPrice:  decPtr("100"),
			TaxPercent: decPtr("18"),
		},
	}

	m := core.ComputePeriodMetrics(txns, ledger)

	if !m.SalesRevenue.Equal(dec("600")) {
		t.Errorf("SalesRevenue = %s, want 600", m.SalesRevenue)
	}
	if !m.CostOfGoodsSold.Equal(dec("500")) {
		t.Errorf("CostOfGoodsSold = %s, want 500", m.CostOfGoodsSold)
	}
	if !m.NetEarnings.Equal(dec("100")) {
		t.Errorf("NetEarnings = %s, want 100", m.NetEarnings)
	}
	if !m.EstimatedCOGS.IsZero() {
		t.Errorf("EstimatedCOGS = %s, want 0 (cost was recorded)", m.EstimatedCOGS)
	}
	if m.DispatchedQty != 5 {
		t.Errorf("DispatchedQty = %d, want 5", m.DispatchedQty)
	}
}

func TestComputePeriodMetrics_DamageLoss(t *testing.T) {
	// Damaging 2 units of a 50-cost item loses 100; revenue is untouched.
	txns := []core.StockTransaction{
		{ItemID: "item-1", Type: core.TxDamage, Quantity: 2, Price: dec("50")},
	}

	m := core.ComputePeriodMetrics(txns, nil)

	if !m.DamageLoss.Equal(dec("100")) {
		t.Errorf("DamageLoss = %s, want 100", m.DamageLoss)
	}
	if !m.SalesRevenue.IsZero() {
		t.Errorf("SalesRevenue = %s, want 0", m.SalesRevenue)
	}
	if !m.NetEarnings.IsZero() {
		t.Errorf("NetEarnings = %s, want 0 (damage does not hit earnings)", m.NetEarnings)
	}
}

func TestComputePeriodMetrics_CostFallback(t *testing.T) {
	ledger := []core.StockItem{
		{ID: "item-1", Price: dec("80")},
	}
	txns := []core.StockTransaction{
		// Legacy sale without a recorded cost: falls back to current price.
		{ItemID: "item-1", Type: core.TxOut, Quantity: 3, Price: dec("100")},
		// Sale of a deleted item: zero cost, still counted as estimated.
		{ItemID: "gone", Type: core.TxOut, Quantity: 2, Price: dec("100")},
	}

	m := core.ComputePeriodMetrics(txns, ledger)

	if !m.SalesRevenue.Equal(dec("500")) {
		t.Errorf("SalesRevenue = %s, want 500", m.SalesRevenue)
	}
	if !m.CostOfGoodsSold.Equal(dec("240")) {
		t.Errorf("CostOfGoodsSold = %s, want 240", m.CostOfGoodsSold)
	}
	if !m.EstimatedCOGS.Equal(dec("240")) {
		t.Errorf("EstimatedCOGS = %s, want 240 (all of COGS is estimated)", m.EstimatedCOGS)
	}
}

func TestComputePeriodMetrics_NetMovement(t *testing.T) {
	txns := []core.StockTransaction{
		{ItemID: "a", Type: core.TxIn, Quantity: 10, Price: dec("5")},
		{ItemID: "a", Type: core.TxOut, Quantity: 4, Price: dec("8"), CostPrice: decPtr("5")},
		{ItemID: "a", Type: core.TxDamage, Quantity: 1, Price: dec("5")},
	}
	m := core.ComputePeriodMetrics(txns, nil)
	if got := m.NetMovement(); got != 5 {
		t.Errorf("NetMovement = %d, want 5", got)
	}
	if !m.ReceivedValue.Equal(dec("50")) {
		t.Errorf("ReceivedValue = %s, want 50", m.ReceivedValue)
	}
}

func TestComputeSnapshotMetrics(t *testing.T) {
	now := time.Now()
	items := []core.StockItem{
		{ID: "a", Name: "A", Category: "Electronics", Quantity: 10, Price: dec("100"), MinThreshold: 5, LastUpdated: now},
		{ID: "b", Name: "B", Category: "Electronics", Quantity: 4, Price: dec("50"), MinThreshold: 5, LastUpdated: now},
		{ID: "c", Name: "C", Category: "Grocery", Quantity: 5, Price: dec("20"), MinThreshold: 5, LastUpdated: now},
	}

	m := core.ComputeSnapshotMetrics(items)

	if !m.CurrentStockValue.Equal(dec("1300")) {
		t.Errorf("CurrentStockValue = %s, want 1300", m.CurrentStockValue)
	}
	if m.TotalItems != 3 || m.TotalQuantity != 19 {
		t.Errorf("totals = (%d items, %d qty), want (3, 19)", m.TotalItems, m.TotalQuantity)
	}

	// Low stock is strictly below threshold: b (4 < 5) qualifies, c (5 == 5) does not.
	if len(m.LowStockItems) != 1 || m.LowStockItems[0].ID != "b" {
		t.Errorf("LowStockItems = %v, want only b", m.LowStockItems)
	}

	if len(m.CategorySplit) != 2 || m.CategorySplit[0].Category != "Electronics" || m.CategorySplit[0].Count != 2 {
		t.Errorf("CategorySplit = %v, want Electronics:2 first", m.CategorySplit)
	}

	if len(m.TopValueItems) != 3 || m.TopValueItems[0].ID != "a" {
		t.Errorf("TopValueItems[0] should be the highest-value item")
	}
}
