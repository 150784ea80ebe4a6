package party

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Store provides PostgreSQL backed persistence for counterparties.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const partyColumns = `id, serial, kind, name, phone, village, crate_terms, created_at, updated_at`

func scanParty(row pgx.Row) (Party, error) {
	var (
		p     Party
		terms []byte
	)
	if err := row.Scan(&p.ID, &p.Serial, &p.Kind, &p.Name, &p.Phone, &p.Village, &terms, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Party{}, err
	}
	if len(terms) > 0 {
		if err := json.Unmarshal(terms, &p.Crate); err != nil {
			return Party{}, fmt.Errorf("decode crate terms: %w", err)
		}
	}
	return p, nil
}

// Create inserts a counterparty. The serial is assigned by the database.
func (s *Store) Create(ctx context.Context, p Party) (Party, error) {
	if s == nil || s.pool == nil {
		return Party{}, errors.New("party store not configured")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	terms, err := encodeTerms(p.Crate)
	if err != nil {
		return Party{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO parties (id, kind, name, phone, village, crate_terms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+partyColumns,
		p.ID, p.Kind, p.Name, p.Phone, p.Village, terms,
	)
	return scanParty(row)
}

// Update applies the non-nil fields of the request and bumps updated_at.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Party, error) {
	if s == nil || s.pool == nil {
		return Party{}, errors.New("party store not configured")
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Party{}, err
	}
	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Phone != nil {
		current.Phone = *req.Phone
	}
	if req.Village != nil {
		current.Village = *req.Village
	}
	if req.Crate != nil {
		current.Crate = settlement.CrateTerms(*req.Crate)
	}
	terms, err := encodeTerms(current.Crate)
	if err != nil {
		return Party{}, err
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE parties
		SET name = $2, phone = $3, village = $4, crate_terms = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+partyColumns,
		id, current.Name, current.Phone, current.Village, terms,
	)
	updated, err := scanParty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, ErrNotFound
	}
	return updated, err
}

// Delete removes a counterparty.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.pool == nil {
		return errors.New("party store not configured")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID loads a counterparty by its identifier.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Party, error) {
	if s == nil || s.pool == nil {
		return Party{}, errors.New("party store not configured")
	}
	row := s.pool.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id)
	p, err := scanParty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, ErrNotFound
	}
	return p, err
}

// GetBySerial loads a counterparty by kind and market-book serial.
func (s *Store) GetBySerial(ctx context.Context, kind Kind, serial int64) (Party, error) {
	if s == nil || s.pool == nil {
		return Party{}, errors.New("party store not configured")
	}
	row := s.pool.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE kind = $1 AND serial = $2`, kind, serial)
	p, err := scanParty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, ErrNotFound
	}
	return p, err
}

// List returns a page of counterparties of the given kind with the total
// count.
func (s *Store) List(ctx context.Context, kind Kind, limit, offset int) ([]Party, int64, error) {
	if s == nil || s.pool == nil {
		return nil, 0, errors.New("party store not configured")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+partyColumns+`
		FROM parties
		WHERE kind = $1
		ORDER BY serial
		LIMIT $2 OFFSET $3`,
		kind, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	parties := make([]Party, 0, limit)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, 0, err
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM parties WHERE kind = $1`, kind).Scan(&total); err != nil {
		return nil, 0, err
	}
	return parties, total, nil
}

func encodeTerms(terms settlement.CrateTerms) ([]byte, error) {
	if terms == nil {
		terms = settlement.CrateTerms{}
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("encode crate terms: %w", err)
	}
	return data, nil
}

// Ping probes the database within the timeout. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	if s == nil || s.pool == nil {
		return errors.New("party store not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.pool.Ping(ctx)
}
