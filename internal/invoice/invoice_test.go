package invoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arot/internal/cart"
	"github.com/noah-isme/backend-arot/internal/settlement"
	"github.com/noah-isme/backend-arot/internal/trade"
)

func TestBuildReproducesStoredValuesVerbatim(t *testing.T) {
	engine := settlement.NewEngine(settlement.DefaultOptions())
	terms := settlement.CrateTerms{"plastic": {Price: 20}}
	exp := settlement.AllocateBatch(settlement.ExpenseBatch{
		Transportation: settlement.ExpenseEntry{Amount: 60, Mode: settlement.ModeDivided},
	}, 2)

	lines := []settlement.Line{
		engine.ComputeLine(settlement.Line{ProductName: "Mango", Cost: 100, Crate: settlement.Crate{Qty: 2}, CrateType: "plastic"}, exp, terms),
		engine.ComputeLine(settlement.Line{ProductName: "Banana", Cost: 40, Crate: settlement.Crate{Qty: 1}, CrateType: "plastic"}, exp, terms),
	}
	tr := trade.Trade{
		ID:                 uuid.New(),
		Kind:               cart.KindSale,
		MemoNo:             17,
		CounterpartySerial: 7,
		Lines:              lines,
		Summary:            trade.Summarize(lines),
	}

	inv := Build(tr)
	require.Equal(t, tr.ID, inv.TradeID)
	require.Equal(t, int64(17), inv.MemoNo)
	require.Len(t, inv.Lines, 2)

	// Every display value is carried over verbatim, never recomputed.
	for i, l := range tr.Lines {
		require.Equal(t, l.Expenses, inv.Lines[i].Expenses)
		require.Equal(t, l.Commission, inv.Lines[i].Commission)
		require.Equal(t, l.CratePrice, inv.Lines[i].CratePrice)
		require.Equal(t, l.Total, inv.Lines[i].Total)
		require.Equal(t, l.Crate.Units(), inv.Lines[i].Units)
	}
	require.Equal(t, tr.Summary, inv.Summary)

	var lineSum float64
	for _, l := range inv.Lines {
		lineSum += l.Total
	}
	require.InDelta(t, inv.Summary.Total, lineSum, 1e-9)
}

func TestBuildEmptyTrade(t *testing.T) {
	inv := Build(trade.Trade{ID: uuid.New(), Kind: cart.KindPurchase})
	require.Empty(t, inv.Lines)
	require.Zero(t, inv.Summary.Total)
}
