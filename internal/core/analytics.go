package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PeriodMetrics are the financial aggregates for one reporting period,
// computed from a date-filtered slice of the transaction log.
//
// CostOfGoodsSold falls back to the referenced item's CURRENT ledger price
// when a transaction predates cost tracking (CostPrice nil). The item may
// have been repriced since the sale, so the fallback portion is reported
// separately in EstimatedCOGS rather than silently folded in.
type PeriodMetrics struct {
	SalesRevenue    decimal.Decimal `json:"salesRevenue"`
	CostOfGoodsSold decimal.Decimal `json:"costOfGoodsSold"`
	EstimatedCOGS   decimal.Decimal `json:"estimatedCogs"` // fallback-derived share of COGS
	NetEarnings     decimal.Decimal `json:"netEarnings"`
	DamageLoss      decimal.Decimal `json:"damageLoss"`

	ReceivedQty     int64           `json:"receivedQty"`
	DispatchedQty   int64           `json:"dispatchedQty"`
	DamagedQty      int64           `json:"damagedQty"`
	ReceivedValue   decimal.Decimal `json:"receivedValue"`
	DispatchedValue decimal.Decimal `json:"dispatchedValue"`
	DamagedValue    decimal.Decimal `json:"damagedValue"`
}

// NetMovement is received minus dispatched minus damaged quantity.
func (m PeriodMetrics) NetMovement() int64 {
	return m.ReceivedQty - m.DispatchedQty - m.DamagedQty
}

// ComputePeriodMetrics reduces a filtered transaction slice against the
// current ledger. The ledger is only consulted for the COGS cost fallback;
// a deleted item contributes zero cost and is counted as estimated.
// All arithmetic is exact decimal; callers round at presentation time.
func ComputePeriodMetrics(txns []StockTransaction, ledger []StockItem) PeriodMetrics {
	byID := make(map[string]StockItem, len(ledger))
	for _, it := range ledger {
		byID[it.ID] = it
	}

	var m PeriodMetrics
	m.SalesRevenue = decimal.Zero
	m.CostOfGoodsSold = decimal.Zero
	m.EstimatedCOGS = decimal.Zero
	m.DamageLoss = decimal.Zero
	m.ReceivedValue = decimal.Zero
	m.DispatchedValue = decimal.Zero
	m.DamagedValue = decimal.Zero

	for _, t := range txns {
		qty := decimal.NewFromInt(t.Quantity)
		switch t.Type {
		case TxIn:
			m.ReceivedQty += t.Quantity
			m.ReceivedValue = m.ReceivedValue.Add(t.Value())
		case TxOut:
			m.DispatchedQty += t.Quantity
			m.DispatchedValue = m.DispatchedValue.Add(t.Value())
			m.SalesRevenue = m.SalesRevenue.Add(t.Value())
			if t.CostPrice != nil {
				m.CostOfGoodsSold = m.CostOfGoodsSold.Add(qty.Mul(*t.CostPrice))
			} else {
				// Legacy record: approximate with the item's current price.
				cost := decimal.Zero
				if it, ok := byID[t.ItemID]; ok {
					cost = it.Price
				}
				est := qty.Mul(cost)
				m.CostOfGoodsSold = m.CostOfGoodsSold.Add(est)
				m.EstimatedCOGS = m.EstimatedCOGS.Add(est)
			}
		case TxDamage:
			// Price on a DAMAGE transaction is unit cost, not sale price.
			m.DamagedQty += t.Quantity
			m.DamagedValue = m.DamagedValue.Add(t.Value())
			m.DamageLoss = m.DamageLoss.Add(t.Value())
		}
	}

	m.NetEarnings = m.SalesRevenue.Sub(m.CostOfGoodsSold)
	return m
}

// CategoryCount is one slice of the category split, display only.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SnapshotMetrics are derived from the current stock ledger alone. They are
// a point-in-time valuation and deliberately independent of any date range.
type SnapshotMetrics struct {
	CurrentStockValue decimal.Decimal `json:"currentStockValue"`
	TotalItems        int             `json:"totalItems"`
	TotalQuantity     int64           `json:"totalQuantity"`
	LowStockItems     []StockItem     `json:"lowStockItems"`
	CategorySplit     []CategoryCount `json:"categorySplit"`
	TopValueItems     []StockItem     `json:"topValueItems"`
}

const topValueCount = 5

// ComputeSnapshotMetrics reduces the current ledger to its snapshot view.
func ComputeSnapshotMetrics(items []StockItem) SnapshotMetrics {
	m := SnapshotMetrics{
		CurrentStockValue: decimal.Zero,
		TotalItems:        len(items),
	}

	counts := make(map[string]int)
	for _, it := range items {
		m.CurrentStockValue = m.CurrentStockValue.Add(it.Value())
		m.TotalQuantity += it.Quantity
		counts[it.Category]++
		if it.LowStock() {
			m.LowStockItems = append(m.LowStockItems, it)
		}
	}

	for cat, n := range counts {
		m.CategorySplit = append(m.CategorySplit, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(m.CategorySplit, func(i, j int) bool {
		if m.CategorySplit[i].Count != m.CategorySplit[j].Count {
			return m.CategorySplit[i].Count > m.CategorySplit[j].Count
		}
		return m.CategorySplit[i].Category < m.CategorySplit[j].Category
	})

	top := make([]StockItem, len(items))
	copy(top, items)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Value().GreaterThan(top[j].Value())
	})
	if len(top) > topValueCount {
		top = top[:topValueCount]
	}
	m.TopValueItems = top

	return m
}
