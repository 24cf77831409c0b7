package web

import (
	"net/http"

	"micro-account/internal/app"
	"micro-account/internal/core"
)

// apiListUsers handles GET /api/users.
func (h *Handler) apiListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, users)
}

// apiRegisterUser handles POST /api/users.
func (h *Handler) apiRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.RegisterUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, user)
}

// apiUpdateUserRole handles PUT /api/users/{id}/role.
func (h *Handler) apiUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateUserRole(r.Context(), id, core.Role(req.Role)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiSetUserActive handles PUT /api/users/{id}/active.
func (h *Handler) apiSetUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.SetUserActive(r.Context(), id, req.Active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
