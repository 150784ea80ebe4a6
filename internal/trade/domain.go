// Package trade records submitted sales and purchases. A submission is the
// terminal's settled cart snapshot; the service re-runs the settlement
// arithmetic before anything is written, so a stored trade always reproduces
// exactly what the calculator displayed.
package trade

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// ErrNotFound indicates the requested trade could not be located.
var ErrNotFound = errors.New("trade not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Summary aggregates the computed lines of a trade.
type Summary struct {
	Expenses   float64 `json:"expenses"`
	Commission float64 `json:"commission"`
	CratePrice float64 `json:"crate_price"`
	Total      float64 `json:"total"`
}

// Trade is one recorded sale or purchase. MemoNo is the short market-book
// memo number assigned by the database at insert.
type Trade struct {
	ID                 uuid.UUID         `json:"id"`
	Kind               cart.Kind         `json:"kind"`
	MemoNo             int64             `json:"memo_no"`
	CounterpartySerial int64             `json:"counterparty_serial"`
	Lines              []settlement.Line `json:"lines"`
	Summary            Summary           `json:"summary"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Summarize folds the computed lines.
func Summarize(lines []settlement.Line) Summary {
	var s Summary
	for _, l := range lines {
		s.Expenses += l.Expenses
		s.Commission += l.Commission
		s.CratePrice += l.CratePrice
		s.Total += l.Total
	}
	return s
}

// SubmitRequest carries the terminal's settled snapshot. CartID is optional;
// when present the session is closed after a successful submit.
type SubmitRequest struct {
	CartID             *uuid.UUID               `json:"cart_id,omitempty"`
	CounterpartySerial int64                    `json:"counterparty_serial" validate:"omitempty,min=0"`
	Lines              []settlement.Line        `json:"lines" validate:"required,min=1"`
	Expenses           *settlement.ExpenseBatch `json:"expenses,omitempty"`
}
