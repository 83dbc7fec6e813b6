// Package metrics exposes Prometheus gauges and counters for the stock
// system. Gauges are refreshed from ledger snapshots on change events rather
// than instrumented inline, so they stay consistent with what the API serves.
package metrics

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stockmaster/internal/core"
)

type Metrics struct {
	txTotal       *prometheus.CounterVec
	stockValue    prometheus.Gauge
	itemCount     prometheus.Gauge
	totalQuantity prometheus.Gauge
	lowStockCount prometheus.Gauge
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		txTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockmaster_transactions_total",
			Help: "Stock transactions recorded, by movement type.",
		}, []string{"type"}),
		stockValue: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockmaster_stock_value",
			Help: "Current total stock value across all warehouses.",
		}),
		itemCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockmaster_items",
			Help: "Number of distinct items in the stock ledger.",
		}),
		totalQuantity: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockmaster_total_quantity",
			Help: "Total units on hand across all items.",
		}),
		lowStockCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockmaster_low_stock_items",
			Help: "Items currently below their low-stock threshold.",
		}),
	}
}

// setSnapshot updates the gauges from a freshly computed ledger snapshot.
func (m *Metrics) setSnapshot(s core.SnapshotMetrics) {
	m.stockValue.Set(s.CurrentStockValue.InexactFloat64())
	m.itemCount.Set(float64(s.TotalItems))
	m.totalQuantity.Set(float64(s.TotalQuantity))
	m.lowStockCount.Set(float64(len(s.LowStockItems)))
}

// Watch consumes change events until ctx is cancelled, counting transactions
// and refreshing the snapshot gauges whenever the ledger changes. Run it in
// its own goroutine.
func (m *Metrics) Watch(ctx context.Context, bus *core.ChangeBus, stock core.StockService, log *slog.Logger) {
	events := bus.Subscribe(64)

	m.refresh(ctx, stock, log)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if ev.Kind == core.ChangeTransaction {
				m.txTotal.WithLabelValues(string(ev.TxType)).Inc()
			}
			m.refresh(ctx, stock, log)
		}
	}
}

func (m *Metrics) refresh(ctx context.Context, stock core.StockService, log *slog.Logger) {
	items, err := stock.ListItems(ctx, "")
	if err != nil {
		log.Warn("metrics snapshot refresh failed", "error", err)
		return
	}
	m.setSnapshot(core.ComputeSnapshotMetrics(items))
}
