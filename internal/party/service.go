package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arot/internal/obs"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Storage defines the persistence operations the service needs.
type Storage interface {
	Create(ctx context.Context, p Party) (Party, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Party, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Party, error)
	GetBySerial(ctx context.Context, kind Kind, serial int64) (Party, error)
	List(ctx context.Context, kind Kind, limit, offset int) ([]Party, int64, error)
}

// Service encapsulates counterparty operations, including the crate-terms
// lookup the settlement engine consumes.
type Service struct {
	Store  Storage
	Cache  *Cache
	Logger zerolog.Logger
}

// Create registers a counterparty.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Party, error) {
	if s == nil || s.Store == nil {
		return Party{}, errors.New("party service not configured")
	}
	kind := Kind(req.Kind)
	if !kind.Valid() {
		return Party{}, fmt.Errorf("unknown kind %q: %w", req.Kind, ErrInvalidInput)
	}
	p := Party{
		Kind:    kind,
		Name:    req.Name,
		Phone:   req.Phone,
		Village: req.Village,
		Crate:   settlement.CrateTerms(req.Crate),
	}
	return s.Store.Create(ctx, p)
}

// Update modifies a counterparty and invalidates its cached crate terms.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Party, error) {
	if s == nil || s.Store == nil {
		return Party{}, errors.New("party service not configured")
	}
	updated, err := s.Store.Update(ctx, id, req)
	if err != nil {
		return Party{}, err
	}
	s.Cache.Invalidate(ctx, updated.Kind, updated.Serial)
	return updated, nil
}

// Delete removes a counterparty and invalidates its cached crate terms.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.Store == nil {
		return errors.New("party service not configured")
	}
	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, existing.Kind, existing.Serial)
	return nil
}

// Get loads a counterparty by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Party, error) {
	if s == nil || s.Store == nil {
		return Party{}, errors.New("party service not configured")
	}
	return s.Store.GetByID(ctx, id)
}

// List returns a page of counterparties.
func (s *Service) List(ctx context.Context, kind Kind, limit, offset int) ([]Party, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("party service not configured")
	}
	return s.Store.List(ctx, kind, limit, offset)
}

// Terms resolves the crate terms for a counterparty serial. A miss is not an
// error: it returns nil terms (every crate prices at zero) and logs a
// warning so drifting serials are visible without changing any totals.
func (s *Service) Terms(ctx context.Context, kind Kind, serial int64) settlement.CrateTerms {
	if s == nil || s.Store == nil {
		return nil
	}
	if terms, ok := s.Cache.Get(ctx, kind, serial); ok {
		if obs.PartyTermsCacheTotal != nil {
			obs.PartyTermsCacheTotal.WithLabelValues("hit").Inc()
		}
		return terms
	}
	if obs.PartyTermsCacheTotal != nil {
		obs.PartyTermsCacheTotal.WithLabelValues("miss").Inc()
	}
	p, err := s.Store.GetBySerial(ctx, kind, serial)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.Logger.Warn().
				Str("kind", string(kind)).
				Int64("serial", serial).
				Msg("counterparty not found; crate charges priced at zero")
		} else {
			s.Logger.Error().Err(err).
				Str("kind", string(kind)).
				Int64("serial", serial).
				Msg("load counterparty terms")
		}
		return nil
	}
	s.Cache.Set(ctx, kind, serial, p.Crate)
	return p.Crate
}

// Lookup adapts Terms to the settlement engine's lookup signature.
func (s *Service) Lookup(ctx context.Context, kind Kind) settlement.TermsLookup {
	return func(serial int64) settlement.CrateTerms {
		return s.Terms(ctx, kind, serial)
	}
}
