package web

import (
	"net/http"

	"stockmaster/internal/app"
)

// historyRequestFromQuery reads the shared scope and range query parameters:
// warehouseId, itemId, range, start, end.
func historyRequestFromQuery(r *http.Request) app.HistoryRequest {
	q := r.URL.Query()
	return app.HistoryRequest{
		WarehouseID: q.Get("warehouseId"),
		ItemID:      q.Get("itemId"),
		RangeKind:   q.Get("range"),
		RangeStart:  q.Get("start"),
		RangeEnd:    q.Get("end"),
	}
}

// listTransactions handles GET /api/transactions, newest first.
func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListHistory(r.Context(), historyRequestFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"transactions": res.Entries,
		"warehouseId":  res.WarehouseID,
	})
}

// dashboard handles GET /api/dashboard: snapshot metrics for the scope plus
// period metrics for the selected range.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDashboard(r.Context(), historyRequestFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"snapshot": res.Snapshot,
		"period":   res.Period,
		"recent":   res.Recent,
	})
}
