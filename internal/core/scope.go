package core

// Warehouse scoping is a derived view over snapshots, recomputed on demand
// and never stored. An empty warehouse id means the global (all-warehouse)
// view.

// ScopeItems returns the items belonging to warehouseID, or all items for
// the global view.
func ScopeItems(items []StockItem, warehouseID string) []StockItem {
	if warehouseID == "" {
		return items
	}
	out := make([]StockItem, 0, len(items))
	for _, it := range items {
		if it.WarehouseID == warehouseID {
			out = append(out, it)
		}
	}
	return out
}

// ScopeTransactions returns the transactions whose ItemID resolves to an
// item in scopedItems. Orphaned transactions (deleted items) therefore only
// appear in the global view, where scopedItems spans every warehouse and the
// orphans are still excluded from per-warehouse totals.
func ScopeTransactions(txns []StockTransaction, scopedItems []StockItem) []StockTransaction {
	ids := make(map[string]struct{}, len(scopedItems))
	for _, it := range scopedItems {
		ids[it.ID] = struct{}{}
	}
	out := make([]StockTransaction, 0, len(txns))
	for _, t := range txns {
		if _, ok := ids[t.ItemID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// ItemNameIndex builds a lookup for labelling transactions. Lookups must
// tolerate deleted items, so misses return UnknownItemName.
type ItemNameIndex map[string]string

func NewItemNameIndex(items []StockItem) ItemNameIndex {
	idx := make(ItemNameIndex, len(items))
	for _, it := range items {
		idx[it.ID] = it.Name
	}
	return idx
}

// Name returns the item's display name, or UnknownItemName when the itemID
// no longer resolves.
func (idx ItemNameIndex) Name(itemID string) string {
	if name, ok := idx[itemID]; ok {
		return name
	}
	return UnknownItemName
}
