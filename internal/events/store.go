package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists events in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InsertEvent writes the event row and returns it with its assigned id and
// timestamp.
func (s *Store) InsertEvent(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (Event, error) {
	if s == nil || s.pool == nil {
		return Event{}, errors.New("event store not configured")
	}
	ev := Event{Topic: topic, AggregateID: aggregateID, Payload: payload}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO domain_events (id, topic, aggregate_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, occurred_at`,
		uuid.New(), topic, aggregateID, payload,
	)
	if err := row.Scan(&ev.ID, &ev.OccurredAt); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// ListByAggregate returns the events recorded for one aggregate, oldest
// first.
func (s *Store) ListByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]Event, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("event store not configured")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, topic, aggregate_id, payload, occurred_at
		FROM domain_events
		WHERE aggregate_id = $1
		ORDER BY occurred_at`,
		aggregateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
