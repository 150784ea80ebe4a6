// Package cart keeps the live working carts terminals edit during a market
// day. A cart is a short-lived session: lines and an optional expense batch,
// re-settled after every mutation so the displayed totals are never stale.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/party"
	"github.com/noah-isme/backend-arot/internal/settlement"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Kind says which side of the market the cart settles.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindSale || k == KindPurchase
}

// PartyKind maps the cart side to the counterparty registry: sales settle
// against customers, purchases against suppliers.
func (k Kind) PartyKind() party.Kind {
	if k == KindPurchase {
		return party.KindSupplier
	}
	return party.KindCustomer
}

// Session is one live cart. Lines always carry freshly computed totals; Batch
// is the last applied expense batch, nil until the expense form is entered.
type Session struct {
	ID                 uuid.UUID                `json:"id"`
	Kind               Kind                     `json:"kind"`
	CounterpartySerial int64                    `json:"counterparty_serial"`
	Lines              []settlement.Line        `json:"lines"`
	Batch              *settlement.ExpenseBatch `json:"expenses,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// Summary aggregates the computed cart.
type Summary struct {
	Lines      int     `json:"lines"`
	Expenses   float64 `json:"expenses"`
	Commission float64 `json:"commission"`
	CratePrice float64 `json:"crate_price"`
	Total      float64 `json:"total"`
}

// Summarize folds the computed lines of a session.
func (s Session) Summarize() Summary {
	sum := Summary{Lines: len(s.Lines)}
	for _, l := range s.Lines {
		sum.Expenses += l.Expenses
		sum.Commission += l.Commission
		sum.CratePrice += l.CratePrice
		sum.Total += l.Total
	}
	return sum
}

// CreateRequest opens a cart session.
type CreateRequest struct {
	Kind               string `json:"kind" validate:"required,oneof=sale purchase"`
	CounterpartySerial int64  `json:"counterparty_serial" validate:"omitempty,min=0"`
}

// LineRequest adds or replaces a cart line. A zero CounterpartySerial falls
// back to the session's serial.
type LineRequest struct {
	ProductID          string           `json:"product_id" validate:"omitempty,max=64"`
	ProductName        string           `json:"product_name" validate:"required,max=200"`
	CounterpartySerial int64            `json:"counterparty_serial" validate:"omitempty,min=0"`
	Cost               float64          `json:"cost"`
	Crate              settlement.Crate `json:"crate"`
	CrateType          string           `json:"crate_type" validate:"omitempty,max=40"`
	CommissionRate     *float64         `json:"commission_rate,omitempty"`
}
