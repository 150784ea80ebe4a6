package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists rendered invoices in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert writes the snapshot. A trade renders at most once: re-delivery of
// the render task hits the trade_id conflict and is a no-op.
func (s *Store) Insert(ctx context.Context, inv Invoice) (bool, error) {
	if s == nil || s.pool == nil {
		return false, errors.New("invoice store not configured")
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return false, fmt.Errorf("encode invoice lines: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO invoices (
			id, trade_id, kind, memo_no, counterparty_serial, lines,
			expenses, commission, crate_price, total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (trade_id) DO NOTHING`,
		inv.ID, inv.TradeID, inv.Kind, inv.MemoNo, inv.CounterpartySerial, lines,
		inv.Summary.Expenses, inv.Summary.Commission, inv.Summary.CratePrice, inv.Summary.Total,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetByTradeID loads the rendered snapshot for a trade.
func (s *Store) GetByTradeID(ctx context.Context, tradeID uuid.UUID) (Invoice, error) {
	if s == nil || s.pool == nil {
		return Invoice{}, errors.New("invoice store not configured")
	}
	var (
		inv   Invoice
		lines []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, trade_id, kind, memo_no, counterparty_serial, lines,
		       expenses, commission, crate_price, total, rendered_at
		FROM invoices
		WHERE trade_id = $1`,
		tradeID,
	).Scan(
		&inv.ID, &inv.TradeID, &inv.Kind, &inv.MemoNo, &inv.CounterpartySerial, &lines,
		&inv.Summary.Expenses, &inv.Summary.Commission, &inv.Summary.CratePrice, &inv.Summary.Total,
		&inv.RenderedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	if err := json.Unmarshal(lines, &inv.Lines); err != nil {
		return Invoice{}, fmt.Errorf("decode invoice lines: %w", err)
	}
	return inv, nil
}
