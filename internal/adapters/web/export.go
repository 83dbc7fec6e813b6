package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"stockmaster/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportStockCSV handles GET /api/export/stock.csv?warehouseId=...
func (h *Handler) exportStockCSV(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListItems(r.Context(), r.URL.Query().Get("warehouseId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="stock-%s.csv"`, export.FileTimestamp(time.Now())))
	if err := export.WriteStockCSV(w, res.Items); err != nil {
		h.log.Error("stock csv export failed", "error", err)
	}
}

// exportStockXLSX handles GET /api/export/stock.xlsx?warehouseId=...
func (h *Handler) exportStockXLSX(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListItems(r.Context(), r.URL.Query().Get("warehouseId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	buf, err := export.StockWorkbook(res.Items)
	if err != nil {
		writeError(w, r, "failed to build workbook", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="stock-%s.xlsx"`, export.FileTimestamp(time.Now())))
	_, _ = w.Write(buf.Bytes())
}

// exportActivityXLSX handles GET /api/export/activity.xlsx with the usual
// scope and range query parameters.
func (h *Handler) exportActivityXLSX(w http.ResponseWriter, r *http.Request) {
	req := historyRequestFromQuery(r)
	dash, err := h.svc.GetDashboard(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	hist, err := h.svc.ListHistory(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	entries := make([]export.ActivityEntry, len(hist.Entries))
	for i, e := range hist.Entries {
		entries[i] = export.ActivityEntry{Tx: e.StockTransaction, ItemName: e.ItemName}
	}

	label := req.RangeKind
	if label == "" {
		label = "all"
	}
	buf, err := export.ActivityWorkbook(label, dash.Period, entries)
	if err != nil {
		writeError(w, r, "failed to build workbook", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="activity-%s.xlsx"`, export.FileTimestamp(time.Now())))
	_, _ = w.Write(buf.Bytes())
}

type invoiceExportRequest struct {
	Customer string `json:"customer"`
	Lines    []struct {
		ItemName   string          `json:"itemName"`
		Quantity   int64           `json:"quantity"`
		UnitPrice  decimal.Decimal `json:"unitPrice"`
		TaxPercent decimal.Decimal `json:"taxPercent"`
	} `json:"lines"`
}

// exportInvoiceXLSX handles POST /api/export/invoice. It renders a workbook
// from the posted sale data without touching stock; the sale itself is booked
// separately through bulk-dispatch.
func (h *Handler) exportInvoiceXLSX(w http.ResponseWriter, r *http.Request) {
	var req invoiceExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Customer == "" || len(req.Lines) == 0 {
		writeError(w, r, "customer and lines are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	inv := export.Invoice{
		Customer:   req.Customer,
		Date:       time.Now(),
		Subtotal:   decimal.Zero,
		TaxAmount:  decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	hundred := decimal.NewFromInt(100)
	for _, l := range req.Lines {
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		inv.Lines = append(inv.Lines, export.InvoiceLine{
			ItemName:   l.ItemName,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TaxPercent: l.TaxPercent,
			LineTotal:  lineTotal,
		})
		inv.Subtotal = inv.Subtotal.Add(lineTotal)
		inv.TaxAmount = inv.TaxAmount.Add(lineTotal.Mul(l.TaxPercent).Div(hundred))
	}
	inv.GrandTotal = inv.Subtotal.Add(inv.TaxAmount)

	buf, err := export.InvoiceWorkbook(inv)
	if err != nil {
		writeError(w, r, "failed to build workbook", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="invoice-%s.xlsx"`, export.FileTimestamp(time.Now())))
	_, _ = w.Write(buf.Bytes())
}
