package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/common"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Handler wires cart sessions to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type sessionResponse struct {
	Session
	Summary Summary `json:"summary"`
}

func respond(w http.ResponseWriter, status int, sess Session) {
	common.JSONData(w, status, sessionResponse{Session: sess, Summary: sess.Summarize()})
}

// Create handles POST /v1/carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	sess, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, sess)
}

// Get handles GET /v1/carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// AddLine handles POST /v1/carts/{id}/lines.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.AddLine(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// UpdateLine handles PUT /v1/carts/{id}/lines/{lineId}.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.UpdateLine(r.Context(), id, chi.URLParam(r, "lineId"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// RemoveLine handles DELETE /v1/carts/{id}/lines/{lineId}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.RemoveLine(r.Context(), id, chi.URLParam(r, "lineId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// ApplyExpenses handles POST /v1/carts/{id}/expenses.
func (h *Handler) ApplyExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var batch settlement.ExpenseBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	sess, err := h.Svc.ApplyExpenses(r.Context(), id, batch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// Recompute handles POST /v1/carts/{id}/recompute.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.Recompute(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// Clear handles POST /v1/carts/{id}/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	sess, err := h.Svc.Clear(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

// Close handles DELETE /v1/carts/{id}.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Close(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeLine(w http.ResponseWriter, r *http.Request) (LineRequest, bool) {
	var req LineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return LineRequest{}, false
	}
	if err := h.validate(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return LineRequest{}, false
	}
	return req, true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid cart id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}

// Routes mounts the cart endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Close)
		r.Post("/lines", h.AddLine)
		r.Put("/lines/{lineId}", h.UpdateLine)
		r.Delete("/lines/{lineId}", h.RemoveLine)
		r.Post("/expenses", h.ApplyExpenses)
		r.Post("/recompute", h.Recompute)
		r.Post("/clear", h.Clear)
	})
}
