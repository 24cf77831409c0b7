package web

import (
	"net/http"

	"micro-account/internal/app"
	"micro-account/internal/core"
)

// apiListQuotations handles GET /api/quotations?status=sent.
func (h *Handler) apiListQuotations(w http.ResponseWriter, r *http.Request) {
	var status *core.QuotationStatus
	if s := r.URL.Query().Get("status"); s != "" {
		qs := core.QuotationStatus(s)
		status = &qs
	}
	quotations, err := h.svc.ListQuotations(r.Context(), status)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, quotations)
}

// apiGetQuotation handles GET /api/quotations/{id}.
func (h *Handler) apiGetQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	q, err := h.svc.GetQuotation(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiCreateQuotation handles POST /api/quotations.
func (h *Handler) apiCreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req app.DocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.CreateQuotation(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, q)
}

// apiUpdateQuotationStatus handles POST /api/quotations/{id}/status.
func (h *Handler) apiUpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.UpdateQuotationStatus(r.Context(), id, core.QuotationStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiConvertQuotation handles POST /api/quotations/{id}/convert. Converting
// an already-invoiced quotation returns the existing invoice, not an error.
func (h *Handler) apiConvertQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.ConvertQuotation(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, inv)
}

// apiListInvoices handles GET /api/invoices?status=issued.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	var status *core.InvoiceStatus
	if s := r.URL.Query().Get("status"); s != "" {
		is := core.InvoiceStatus(s)
		status = &is
	}
	invoices, err := h.svc.ListInvoices(r.Context(), status)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, invoices)
}

// apiGetInvoice handles GET /api/invoices/{id}.
func (h *Handler) apiGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// apiCreateInvoice handles POST /api/invoices.
func (h *Handler) apiCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.DocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.CreateInvoice(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, inv)
}

// apiUpdateInvoiceStatus handles POST /api/invoices/{id}/status.
func (h *Handler) apiUpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.UpdateInvoiceStatus(r.Context(), id, core.InvoiceStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}
