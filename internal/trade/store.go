package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Store provides PostgreSQL backed persistence for trades.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts the header and its lines in one transaction. The memo
// number comes from the database sequence.
func (s *Store) Create(ctx context.Context, t Trade) (Trade, error) {
	if s == nil || s.pool == nil {
		return Trade{}, errors.New("trade store not configured")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Trade{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO trades (id, kind, counterparty_serial, expenses, commission, crate_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING memo_no, created_at`,
		t.ID, t.Kind, t.CounterpartySerial,
		t.Summary.Expenses, t.Summary.Commission, t.Summary.CratePrice, t.Summary.Total,
	).Scan(&t.MemoNo, &t.CreatedAt)
	if err != nil {
		return Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	for i, l := range t.Lines {
		crate, err := encodeCrate(l.Crate)
		if err != nil {
			return Trade{}, err
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
			t.Lines[i].ID = l.ID
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO trade_lines (
				id, trade_id, position, product_id, product_name, counterparty_serial,
				cost, crate, crate_type, commission_rate,
				transportation, moshjid, van_vara, trading_post, labour,
				expenses, commission, crate_price, total
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10,
				$11, $12, $13, $14, $15,
				$16, $17, $18, $19
			)`,
			l.ID, t.ID, i, l.ProductID, l.ProductName, l.CounterpartySerial,
			l.Cost, crate, l.CrateType, l.CommissionRate,
			l.Transportation, l.Moshjid, l.VanVara, l.TradingPost, l.Labour,
			l.Expenses, l.Commission, l.CratePrice, l.Total,
		)
		if err != nil {
			return Trade{}, fmt.Errorf("insert trade line %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Trade{}, err
	}
	return t, nil
}

const tradeColumns = `id, kind, memo_no, counterparty_serial, expenses, commission, crate_price, total, created_at`

func scanTrade(row pgx.Row) (Trade, error) {
	var t Trade
	err := row.Scan(
		&t.ID, &t.Kind, &t.MemoNo, &t.CounterpartySerial,
		&t.Summary.Expenses, &t.Summary.Commission, &t.Summary.CratePrice, &t.Summary.Total,
		&t.CreatedAt,
	)
	return t, err
}

// GetByID loads the header and its lines.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Trade, error) {
	if s == nil || s.pool == nil {
		return Trade{}, errors.New("trade store not configured")
	}
	t, err := scanTrade(s.pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Trade{}, ErrNotFound
	}
	if err != nil {
		return Trade{}, err
	}
	t.Lines, err = s.lines(ctx, id)
	return t, err
}

func (s *Store) lines(ctx context.Context, tradeID uuid.UUID) ([]settlement.Line, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, product_name, counterparty_serial,
		       cost, crate, crate_type, commission_rate,
		       transportation, moshjid, van_vara, trading_post, labour,
		       expenses, commission, crate_price, total
		FROM trade_lines
		WHERE trade_id = $1
		ORDER BY position`,
		tradeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []settlement.Line
	for rows.Next() {
		var (
			l     settlement.Line
			crate []byte
		)
		err := rows.Scan(
			&l.ID, &l.ProductID, &l.ProductName, &l.CounterpartySerial,
			&l.Cost, &crate, &l.CrateType, &l.CommissionRate,
			&l.Transportation, &l.Moshjid, &l.VanVara, &l.TradingPost, &l.Labour,
			&l.Expenses, &l.Commission, &l.CratePrice, &l.Total,
		)
		if err != nil {
			return nil, err
		}
		if err := decodeCrate(crate, &l.Crate); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// List returns a page of trade headers of the given kind, newest first, with
// the total count. Lines are not loaded for lists.
func (s *Store) List(ctx context.Context, kind cart.Kind, limit, offset int) ([]Trade, int64, error) {
	if s == nil || s.pool == nil {
		return nil, 0, errors.New("trade store not configured")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		kind, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	trades := make([]Trade, 0, limit)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, 0, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM trades WHERE kind = $1`, kind).Scan(&total); err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}
