package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockmaster/internal/app"
	"stockmaster/internal/core"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	users     core.UserService
	jwtSecret string
	log       *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, users core.UserService, allowedOrigins, jwtSecret string, exposeMetrics bool, log *slog.Logger) http.Handler {
	h := &Handler{
		svc:       svc,
		users:     users,
		jwtSecret: jwtSecret,
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Health and metrics (public) ───────────────────────────────────────────
	r.Get("/healthz", h.health)
	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Warehouses
		r.Get("/api/warehouses", h.listWarehouses)
		r.Post("/api/warehouses", h.createWarehouse)
		r.Delete("/api/warehouses/{id}", h.deleteWarehouse)

		// Stock ledger
		r.Get("/api/items", h.listItems)
		r.Post("/api/items", h.createItem)
		r.Get("/api/items/{id}", h.getItem)
		r.Delete("/api/items/{id}", h.deleteItem)
		r.Post("/api/items/{id}/receive", h.receiveStock)
		r.Post("/api/items/{id}/dispatch", h.dispatchStock)
		r.Post("/api/items/{id}/damage", h.reportDamage)
		r.Post("/api/items/bulk-receive", h.bulkReceive)
		r.Post("/api/items/bulk-dispatch", h.bulkDispatch)

		// Transaction log and reconciliation
		r.Get("/api/transactions", h.listTransactions)
		r.Get("/api/dashboard", h.dashboard)

		// Team chat and AI assistant
		r.Get("/api/chat", h.listChat)
		r.Post("/api/chat", h.postChat)
		r.Post("/api/assistant", h.askAssistant)

		// Exports
		r.Get("/api/export/stock.csv", h.exportStockCSV)
		r.Get("/api/export/stock.xlsx", h.exportStockXLSX)
		r.Get("/api/export/activity.xlsx", h.exportActivityXLSX)
		r.Post("/api/export/invoice", h.exportInvoiceXLSX)
	})

	return r
}

// health handles GET /healthz.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
