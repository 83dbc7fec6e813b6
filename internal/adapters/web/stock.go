package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stockmaster/internal/app"
)

type createItemRequest struct {
	WarehouseID  string          `json:"warehouseId"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MinThreshold int64           `json:"minThreshold"`
	Description  string          `json:"description"`
	Source       string          `json:"source"`
}

type receiveRequest struct {
	Quantity int64  `json:"quantity"`
	Source   string `json:"source"`
}

type dispatchRequest struct {
	Quantity   int64           `json:"quantity"`
	SellPrice  decimal.Decimal `json:"sellPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	Customer   string          `json:"customer"`
}

type damageRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

type bulkReceiveRequest struct {
	WarehouseID string `json:"warehouseId"`
	Lines       []struct {
		ItemID       string          `json:"itemId"`
		Name         string          `json:"name"`
		Category     string          `json:"category"`
		Price        decimal.Decimal `json:"price"`
		MinThreshold int64           `json:"minThreshold"`
		Quantity     int64           `json:"quantity"`
		Source       string          `json:"source"`
	} `json:"lines"`
}

type bulkDispatchRequest struct {
	Customer string `json:"customer"`
	Lines    []struct {
		ItemID     string          `json:"itemId"`
		Quantity   int64           `json:"quantity"`
		SellPrice  decimal.Decimal `json:"sellPrice"`
		TaxPercent decimal.Decimal `json:"taxPercent"`
	} `json:"lines"`
}

// userEmail returns the authenticated user's email for transaction actor
// attribution.
func userEmail(r *http.Request) string {
	if claims := authFromContext(r.Context()); claims != nil {
		return claims.Email
	}
	return ""
}

// listItems handles GET /api/items?warehouseId=...
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListItems(r.Context(), r.URL.Query().Get("warehouseId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"items": res.Items, "warehouseId": res.WarehouseID})
}

// getItem handles GET /api/items/{id}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateItem(r.Context(), app.CreateItemRequest{
		WarehouseID:  req.WarehouseID,
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Price:        req.Price,
		MinThreshold: req.MinThreshold,
		Description:  req.Description,
		Source:       req.Source,
		UserEmail:    userEmail(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}

// deleteItem handles DELETE /api/items/{id}.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// receiveStock handles POST /api/items/{id}/receive.
func (h *Handler) receiveStock(w http.ResponseWriter, r *http.Request) {
	var req receiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ReceiveStock(r.Context(), app.ReceiveRequest{
		ItemID:    chi.URLParam(r, "id"),
		Quantity:  req.Quantity,
		Source:    req.Source,
		UserEmail: userEmail(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}

// dispatchStock handles POST /api/items/{id}/dispatch.
func (h *Handler) dispatchStock(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.DispatchStock(r.Context(), app.DispatchRequest{
		ItemID:     chi.URLParam(r, "id"),
		Quantity:   req.Quantity,
		SellPrice:  req.SellPrice,
		TaxPercent: req.TaxPercent,
		Customer:   req.Customer,
		UserEmail:  userEmail(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"item": res.Item, "transaction": res.Transaction})
}

// reportDamage handles POST /api/items/{id}/damage.
func (h *Handler) reportDamage(w http.ResponseWriter, r *http.Request) {
	var req damageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ReportDamage(r.Context(), app.DamageRequest{
		ItemID:    chi.URLParam(r, "id"),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		UserEmail: userEmail(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"item": res.Item, "transaction": res.Transaction})
}

// bulkReceive handles POST /api/items/bulk-receive.
func (h *Handler) bulkReceive(w http.ResponseWriter, r *http.Request) {
	var req bulkReceiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := app.BulkReceiveRequest{
		WarehouseID: req.WarehouseID,
		UserEmail:   userEmail(r),
		Lines:       make([]app.ReceiveLineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		in.Lines[i] = app.ReceiveLineInput{
			ItemID:       l.ItemID,
			Name:         l.Name,
			Category:     l.Category,
			Price:        l.Price,
			MinThreshold: l.MinThreshold,
			Quantity:     l.Quantity,
			Source:       l.Source,
		}
	}
	res, err := h.svc.BulkReceive(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"items": res.Items})
}

// bulkDispatch handles POST /api/items/bulk-dispatch.
func (h *Handler) bulkDispatch(w http.ResponseWriter, r *http.Request) {
	var req bulkDispatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := app.BulkDispatchRequest{
		Customer:  req.Customer,
		UserEmail: userEmail(r),
		Lines:     make([]app.DispatchLineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		in.Lines[i] = app.DispatchLineInput{
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			SellPrice:  l.SellPrice,
			TaxPercent: l.TaxPercent,
		}
	}
	res, err := h.svc.BulkDispatch(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"customer":   res.Customer,
		"lines":      res.Lines,
		"subtotal":   res.Totals.Subtotal,
		"taxAmount":  res.Totals.TaxAmount,
		"grandTotal": res.Totals.GrandTotal,
	})
}
