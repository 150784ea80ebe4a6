package invoice

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/common"
)

// Reader loads rendered invoices.
type Reader interface {
	GetByTradeID(ctx context.Context, tradeID uuid.UUID) (Invoice, error)
}

// Handler serves rendered invoices.
type Handler struct {
	Store Reader
}

// GetByTrade handles GET /v1/trades/{id}/invoice.
func (h *Handler) GetByTrade(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "invoice store not configured", nil)
		return
	}
	tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid trade id", nil)
		return
	}
	inv, err := h.Store.GetByTradeID(r.Context(), tradeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "invoice not rendered yet", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, inv)
}
