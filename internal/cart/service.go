package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arot/internal/obs"
	"github.com/noah-isme/backend-arot/internal/party"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// TermsSource resolves crate terms for a counterparty kind. The party service
// satisfies it.
type TermsSource interface {
	Lookup(ctx context.Context, kind party.Kind) settlement.TermsLookup
}

// Service runs the cart session lifecycle. Every mutation re-settles the
// whole cart against the current expense batch and crate terms, then swaps
// the stored snapshot.
type Service struct {
	Engine settlement.Engine
	Store  *MemoryStore
	Terms  TermsSource
	Logger zerolog.Logger
}

// Create opens a session.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Session, error) {
	if s == nil || s.Store == nil {
		return Session{}, errors.New("cart service not configured")
	}
	kind := Kind(req.Kind)
	if !kind.Valid() {
		return Session{}, fmt.Errorf("unknown kind %q: %w", req.Kind, ErrInvalidInput)
	}
	sess := Session{
		ID:                 uuid.New(),
		Kind:               kind,
		CounterpartySerial: req.CounterpartySerial,
	}
	sess.CreatedAt = s.Store.now()
	return s.Store.Put(sess), nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	if s == nil || s.Store == nil {
		return Session{}, errors.New("cart service not configured")
	}
	sess, ok := s.Store.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// AddLine appends a line and re-settles the cart.
func (s *Service) AddLine(ctx context.Context, id uuid.UUID, req LineRequest) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	line, err := s.buildLine(sess, req)
	if err != nil {
		return Session{}, err
	}
	line.ID = uuid.NewString()
	sess.Lines = append(sess.Lines, line)
	return s.settleAndSwap(ctx, sess), nil
}

// UpdateLine replaces a line in place and re-settles the cart.
func (s *Service) UpdateLine(ctx context.Context, id uuid.UUID, lineID string, req LineRequest) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	idx := -1
	for i, l := range sess.Lines {
		if l.ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Session{}, fmt.Errorf("line %s: %w", lineID, ErrNotFound)
	}
	line, err := s.buildLine(sess, req)
	if err != nil {
		return Session{}, err
	}
	line.ID = lineID
	sess.Lines[idx] = line
	return s.settleAndSwap(ctx, sess), nil
}

// RemoveLine drops a line and re-settles the remainder. Removing a line
// changes the divided-expense share of every other line, so the whole cart
// is folded again.
func (s *Service) RemoveLine(ctx context.Context, id uuid.UUID, lineID string) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	kept := sess.Lines[:0]
	found := false
	for _, l := range sess.Lines {
		if l.ID == lineID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return Session{}, fmt.Errorf("line %s: %w", lineID, ErrNotFound)
	}
	sess.Lines = kept
	return s.settleAndSwap(ctx, sess), nil
}

// ApplyExpenses records the batch and re-settles every line with its share.
func (s *Service) ApplyExpenses(ctx context.Context, id uuid.UUID, batch settlement.ExpenseBatch) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Batch = &batch
	return s.settleAndSwap(ctx, sess), nil
}

// Recompute discards the expense batch and re-settles with zero expenses.
// Crate terms and commission rates still apply.
func (s *Service) Recompute(ctx context.Context, id uuid.UUID) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Batch = nil
	return s.settleAndSwap(ctx, sess), nil
}

// Clear removes every line but keeps the session open.
func (s *Service) Clear(ctx context.Context, id uuid.UUID) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Lines = nil
	sess.Batch = nil
	return s.Store.Put(sess), nil
}

// Close deletes the session. Trade submission calls this once the cart has
// been recorded.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	s.Store.Delete(id)
	return nil
}

func (s *Service) buildLine(sess Session, req LineRequest) (settlement.Line, error) {
	if req.ProductName == "" {
		return settlement.Line{}, fmt.Errorf("product_name is required: %w", ErrInvalidInput)
	}
	serial := req.CounterpartySerial
	if serial == 0 {
		serial = sess.CounterpartySerial
	}
	crate := req.Crate
	// Negative crate counts are data-entry slips; the engine would only
	// degrade them later, so reject them at the boundary.
	if crate.Qty < 0 || crate.TypeOne < 0 || crate.TypeTwo < 0 {
		return settlement.Line{}, fmt.Errorf("crate counts must not be negative: %w", ErrInvalidInput)
	}
	return settlement.Line{
		ProductID:          req.ProductID,
		ProductName:        req.ProductName,
		CounterpartySerial: serial,
		Cost:               req.Cost,
		Crate:              crate,
		CrateType:          req.CrateType,
		CommissionRate:     req.CommissionRate,
	}, nil
}

func (s *Service) settleAndSwap(ctx context.Context, sess Session) Session {
	start := time.Now()
	var lookup settlement.TermsLookup
	if s.Terms != nil {
		lookup = s.Terms.Lookup(ctx, sess.Kind.PartyKind())
	}
	op := "recompute"
	if sess.Batch != nil {
		op = "apply"
		sess.Lines = s.Engine.ComputeCart(sess.Lines, *sess.Batch, lookup)
	} else {
		sess.Lines = s.Engine.RecomputeCart(sess.Lines, lookup)
	}
	if obs.SettlementComputeTotal != nil {
		obs.SettlementComputeTotal.WithLabelValues(op).Inc()
	}
	if obs.SettlementComputeDuration != nil {
		obs.SettlementComputeDuration.WithLabelValues(op).Observe(obs.DurationMillis(time.Since(start)))
	}
	return s.Store.Put(sess)
}
