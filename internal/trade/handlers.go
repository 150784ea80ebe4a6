package trade

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/common"
)

// Handler wires trade submission and lookup to HTTP.
type Handler struct {
	Svc          *Service
	Validate     *validator.Validate
	DefaultLimit int
	MaxLimit     int
}

// SubmitSale handles POST /v1/sales.
func (h *Handler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, cart.KindSale)
}

// SubmitPurchase handles POST /v1/purchases.
func (h *Handler) SubmitPurchase(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, cart.KindPurchase)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, kind cart.Kind) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trade service not configured", nil)
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
	}
	t, err := h.Svc.Submit(r.Context(), kind, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, t)
}

// Get handles GET /v1/trades/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trade service not configured", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid trade id", nil)
		return
	}
	t, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, t)
}

// List handles GET /v1/trades?kind=sale.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trade service not configured", nil)
		return
	}
	kind := cart.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = cart.KindSale
	}
	page, perPage := common.ParsePagination(r, h.DefaultLimit, h.MaxLimit)
	trades, total, err := h.Svc.List(r.Context(), kind, perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONList(w, http.StatusOK, trades, common.Pagination{Page: page, PerPage: perPage, TotalItems: total})
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
