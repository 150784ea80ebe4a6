package party

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

// ErrNotFound indicates the requested counterparty could not be located.
var ErrNotFound = errors.New("party not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Kind distinguishes the two sides of the market.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

// Party is a customer or supplier. Serial is the short market-book number
// terminals use on cart lines; crate terms hold the per-relationship crate
// prices agreed with this party.
type Party struct {
	ID        uuid.UUID             `json:"id"`
	Serial    int64                 `json:"serial"`
	Kind      Kind                  `json:"kind"`
	Name      string                `json:"name"`
	Phone     string                `json:"phone,omitempty"`
	Village   string                `json:"village,omitempty"`
	Crate     settlement.CrateTerms `json:"crate"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CreateRequest is the payload for registering a counterparty.
type CreateRequest struct {
	Kind    string                          `json:"kind" validate:"required,oneof=customer supplier"`
	Name    string                          `json:"name" validate:"required,max=200"`
	Phone   string                          `json:"phone" validate:"omitempty,max=30"`
	Village string                          `json:"village" validate:"omitempty,max=120"`
	Crate   map[string]settlement.CrateTerm `json:"crate" validate:"omitempty,dive,keys,max=40,endkeys"`
}

// UpdateRequest is the payload for updating a counterparty. Nil fields are
// left untouched; a non-nil Crate replaces the whole terms table.
type UpdateRequest struct {
	Name    *string                          `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone   *string                          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Village *string                          `json:"village,omitempty" validate:"omitempty,max=120"`
	Crate   *map[string]settlement.CrateTerm `json:"crate,omitempty"`
}
