// Package invoice renders the printable snapshot of a recorded trade. The
// snapshot is assembled verbatim from the stored computed fields; the only
// arithmetic here is summing values that were already rounded, so the
// invoice always reproduces what the calculator displayed.
package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/trade"
)

// ErrNotFound indicates no invoice has been rendered for the trade.
var ErrNotFound = errors.New("invoice not found")

// Line is one display row of the invoice.
type Line struct {
	ProductName string  `json:"product_name"`
	Units       float64 `json:"units"`
	Cost        float64 `json:"cost"`
	Expenses    float64 `json:"expenses"`
	Commission  float64 `json:"commission"`
	CratePrice  float64 `json:"crate_price"`
	Total       float64 `json:"total"`
}

// Invoice is the rendered snapshot of one trade.
type Invoice struct {
	ID                 uuid.UUID     `json:"id"`
	TradeID            uuid.UUID     `json:"trade_id"`
	Kind               cart.Kind     `json:"kind"`
	MemoNo             int64         `json:"memo_no"`
	CounterpartySerial int64         `json:"counterparty_serial"`
	Lines              []Line        `json:"lines"`
	Summary            trade.Summary `json:"summary"`
	RenderedAt         time.Time     `json:"rendered_at"`
}

// Build assembles the invoice from the stored trade.
func Build(t trade.Trade) Invoice {
	inv := Invoice{
		TradeID:            t.ID,
		Kind:               t.Kind,
		MemoNo:             t.MemoNo,
		CounterpartySerial: t.CounterpartySerial,
		Lines:              make([]Line, len(t.Lines)),
		Summary:            t.Summary,
	}
	for i, l := range t.Lines {
		inv.Lines[i] = Line{
			ProductName: l.ProductName,
			Units:       l.Crate.Units(),
			Cost:        l.Cost,
			Expenses:    l.Expenses,
			Commission:  l.Commission,
			CratePrice:  l.CratePrice,
			Total:       l.Total,
		}
	}
	return inv
}
