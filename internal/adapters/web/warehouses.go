package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createWarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

// listWarehouses handles GET /api/warehouses.
func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"warehouses": res.Warehouses})
}

// createWarehouse handles POST /api/warehouses.
func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var req createWarehouseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wh, err := h.svc.CreateWarehouse(r.Context(), req.Name, req.Location, req.Type)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, wh)
}

// deleteWarehouse handles DELETE /api/warehouses/{id}. Items of the deleted
// warehouse are kept; they simply stop resolving to a warehouse name.
func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteWarehouse(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
