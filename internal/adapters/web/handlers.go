package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"micro-account/internal/app"
	"micro-account/internal/core"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
	log       *zap.Logger
}

// NewHandler creates and wires the chi router with all routes. Read endpoints
// are open to every authenticated role; write endpoints require user or admin;
// account administration requires admin.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string, log *zap.Logger) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Health & auth (public) ────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes ──────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Reads, open to all roles including viewer.
		r.Get("/api/dashboard", h.apiDashboard)
		r.Get("/api/reports/vat", h.apiVATReport)

		r.Get("/api/customers", h.apiListCustomers)
		r.Get("/api/customers/{id}", h.apiGetCustomer)

		r.Get("/api/products", h.apiListProducts)
		r.Get("/api/products/low-stock", h.apiListLowStockProducts)
		r.Get("/api/products/{id}", h.apiGetProduct)
		r.Get("/api/products/{id}/movements", h.apiGetStockMovements)
		r.Get("/api/products/{id}/reconcile", h.apiReconcileStock)

		r.Get("/api/quotations", h.apiListQuotations)
		r.Get("/api/quotations/{id}", h.apiGetQuotation)
		r.Get("/api/invoices", h.apiListInvoices)
		r.Get("/api/invoices/{id}", h.apiGetInvoice)

		r.Get("/api/expenses", h.apiListExpenses)

		// Writes, for user and admin.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(core.RoleAdmin, core.RoleUser))

			r.Post("/api/customers", h.apiCreateCustomer)
			r.Put("/api/customers/{id}", h.apiUpdateCustomer)
			r.Delete("/api/customers/{id}", h.apiDeleteCustomer)

			r.Post("/api/products", h.apiCreateProduct)
			r.Put("/api/products/{id}", h.apiUpdateProduct)
			r.Delete("/api/products/{id}", h.apiDeleteProduct)
			r.Post("/api/stock/movements", h.apiRecordStockMovement)

			r.Post("/api/quotations", h.apiCreateQuotation)
			r.Post("/api/quotations/{id}/status", h.apiUpdateQuotationStatus)
			r.Post("/api/quotations/{id}/convert", h.apiConvertQuotation)
			r.Post("/api/invoices", h.apiCreateInvoice)
			r.Post("/api/invoices/{id}/status", h.apiUpdateInvoiceStatus)

			r.Post("/api/expenses", h.apiCreateExpense)
			r.Put("/api/expenses/{id}", h.apiUpdateExpense)
			r.Delete("/api/expenses/{id}", h.apiDeleteExpense)
		})

		// Account administration, admin only.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(core.RoleAdmin))

			r.Get("/api/users", h.apiListUsers)
			r.Post("/api/users", h.apiRegisterUser)
			r.Put("/api/users/{id}/role", h.apiUpdateUserRole)
			r.Put("/api/users/{id}/active", h.apiSetUserActive)
		})
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts and parses the {id} URL parameter. Writes a 400 and
// returns false on malformed input.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
