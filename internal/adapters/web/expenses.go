package web

import (
	"net/http"
	"strconv"
	"time"

	"micro-account/internal/app"
)

// apiListExpenses handles GET /api/expenses?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) apiListExpenses(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	expenses, err := h.svc.ListExpenses(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, expenses)
}

// apiCreateExpense handles POST /api/expenses.
func (h *Handler) apiCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req app.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	expense, err := h.svc.CreateExpense(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, expense)
}

// apiUpdateExpense handles PUT /api/expenses/{id}.
func (h *Handler) apiUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	expense, err := h.svc.UpdateExpense(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expense)
}

// apiDeleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) apiDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiVATReport handles GET /api/reports/vat?year=2026&month=8.
// Year and month default to the current calendar month.
func (h *Handler) apiVATReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, r, "invalid year", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil {
			writeError(w, r, "invalid month", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	report, err := h.svc.GetVATReport(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// apiDashboard handles GET /api/dashboard.
func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDashboardSummary(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}
