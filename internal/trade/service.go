package trade

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/common"
	"github.com/noah-isme/backend-arot/internal/events"
	"github.com/noah-isme/backend-arot/internal/obs"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Tolerance is the largest per-field drift a submission may show against the
// server-side recomputation. Anything beyond a rounding wobble means the
// terminal settled with stale crate terms or a different engine.
const Tolerance = 0.01

// Storage defines the persistence operations the service needs.
type Storage interface {
	Create(ctx context.Context, t Trade) (Trade, error)
	GetByID(ctx context.Context, id uuid.UUID) (Trade, error)
	List(ctx context.Context, kind cart.Kind, limit, offset int) ([]Trade, int64, error)
}

// Sessions is the slice of the cart service the submit flow uses.
type Sessions interface {
	Close(ctx context.Context, id uuid.UUID) error
}

// Service verifies and records trade submissions.
type Service struct {
	Engine settlement.Engine
	Store  Storage
	Terms  cart.TermsSource
	Carts  Sessions
	Bus    *events.Bus
	Logger zerolog.Logger
}

// Submit re-settles the snapshot and records it. Any computed field that
// drifts beyond Tolerance from the recomputation rejects the submission with
// a TOTAL_MISMATCH error.
func (s *Service) Submit(ctx context.Context, kind cart.Kind, req SubmitRequest) (Trade, error) {
	if s == nil || s.Store == nil {
		return Trade{}, errors.New("trade service not configured")
	}
	if !kind.Valid() {
		return Trade{}, fmt.Errorf("unknown kind %q: %w", kind, ErrInvalidInput)
	}
	if len(req.Lines) == 0 {
		return Trade{}, fmt.Errorf("at least one line is required: %w", ErrInvalidInput)
	}

	var lookup settlement.TermsLookup
	if s.Terms != nil {
		lookup = s.Terms.Lookup(ctx, kind.PartyKind())
	}
	var batch settlement.ExpenseBatch
	if req.Expenses != nil {
		batch = *req.Expenses
	}
	recomputed := s.Engine.ComputeCart(req.Lines, batch, lookup)

	if details := diffLines(req.Lines, recomputed); len(details) > 0 {
		s.recordResult(kind, "mismatch")
		return Trade{}, &common.AppError{
			Code:       "TOTAL_MISMATCH",
			Message:    "submitted totals do not match the recomputation",
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"mismatches": details},
		}
	}

	t := Trade{
		Kind:               kind,
		CounterpartySerial: req.CounterpartySerial,
		Lines:              recomputed,
		Summary:            Summarize(recomputed),
	}
	created, err := s.Store.Create(ctx, t)
	if err != nil {
		s.recordResult(kind, "error")
		return Trade{}, err
	}
	s.recordResult(kind, "ok")

	if req.CartID != nil && s.Carts != nil {
		if err := s.Carts.Close(ctx, *req.CartID); err != nil {
			s.Logger.Warn().Err(err).Stringer("cart_id", *req.CartID).Msg("close cart after submit")
		}
	}
	if s.Bus != nil {
		if _, err := s.Bus.Emit(ctx, events.TopicTradeRecorded, created.ID, map[string]any{
			"trade_id": created.ID,
			"kind":     created.Kind,
			"memo_no":  created.MemoNo,
			"total":    created.Summary.Total,
		}); err != nil {
			s.Logger.Warn().Err(err).Stringer("trade_id", created.ID).Msg("emit trade.recorded")
		}
	}
	return created, nil
}

// Get loads a trade with its lines.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Trade, error) {
	if s == nil || s.Store == nil {
		return Trade{}, errors.New("trade service not configured")
	}
	return s.Store.GetByID(ctx, id)
}

// List returns a page of trades of the given kind, newest first.
func (s *Service) List(ctx context.Context, kind cart.Kind, limit, offset int) ([]Trade, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("trade service not configured")
	}
	if !kind.Valid() {
		return nil, 0, fmt.Errorf("unknown kind %q: %w", kind, ErrInvalidInput)
	}
	return s.Store.List(ctx, kind, limit, offset)
}

func (s *Service) recordResult(kind cart.Kind, result string) {
	if obs.TradesRecordedTotal != nil {
		obs.TradesRecordedTotal.WithLabelValues(string(kind), result).Inc()
	}
}

type mismatch struct {
	Line      int     `json:"line"`
	Field     string  `json:"field"`
	Submitted float64 `json:"submitted"`
	Computed  float64 `json:"computed"`
}

func diffLines(submitted, computed []settlement.Line) []mismatch {
	var out []mismatch
	for i := range submitted {
		fields := []struct {
			name string
			a, b float64
		}{
			{"transportation", submitted[i].Transportation, computed[i].Transportation},
			{"moshjid", submitted[i].Moshjid, computed[i].Moshjid},
			{"van_vara", submitted[i].VanVara, computed[i].VanVara},
			{"trading_post", submitted[i].TradingPost, computed[i].TradingPost},
			{"labour", submitted[i].Labour, computed[i].Labour},
			{"expenses", submitted[i].Expenses, computed[i].Expenses},
			{"commission", submitted[i].Commission, computed[i].Commission},
			{"crate_price", submitted[i].CratePrice, computed[i].CratePrice},
			{"total", submitted[i].Total, computed[i].Total},
		}
		for _, f := range fields {
			if math.Abs(f.a-f.b) > Tolerance {
				out = append(out, mismatch{Line: i, Field: f.name, Submitted: f.a, Computed: f.b})
			}
		}
	}
	return out
}
