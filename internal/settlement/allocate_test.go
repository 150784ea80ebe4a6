package settlement

import (
	"math"
	"testing"
)

func TestAllocateDivided(t *testing.T) {
	got := Allocate(100, ModeDivided, 2)
	if got != 50 {
		t.Fatalf("expected 50 per line, got %v", got)
	}
}

func TestAllocateFixedAppliesFullAmount(t *testing.T) {
	got := Allocate(75.5, ModeFixed, 4)
	if got != 75.5 {
		t.Fatalf("expected fixed amount untouched by line count, got %v", got)
	}
}

func TestAllocateUnknownModeTreatedAsFixed(t *testing.T) {
	got := Allocate(30, Mode("whatever"), 3)
	if got != 30 {
		t.Fatalf("expected unknown mode to behave as fixed, got %v", got)
	}
}

func TestAllocateZeroLinesReturnsZero(t *testing.T) {
	got := Allocate(100, ModeDivided, 0)
	if got != 0 {
		t.Fatalf("expected 0 for an empty cart, got %v", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("division fault leaked to caller: %v", got)
	}
}

func TestAllocateNonFiniteAmountDegradesToZero(t *testing.T) {
	if got := Allocate(math.NaN(), ModeDivided, 3); got != 0 {
		t.Fatalf("expected NaN amount to coerce to 0, got %v", got)
	}
	if got := Allocate(math.Inf(1), ModeFixed, 3); got != 0 {
		t.Fatalf("expected Inf amount to coerce to 0, got %v", got)
	}
}

func TestAllocateDividedRoundsPerLine(t *testing.T) {
	// 100 over 3 lines rounds independently on each line; the sum is
	// 3*round2(100/3), not exactly 100. That drift is expected.
	per := Allocate(100, ModeDivided, 3)
	if per != 33.33 {
		t.Fatalf("expected 33.33 per line, got %v", per)
	}
	total := per * 3
	if math.Abs(total-99.99) > 1e-9 {
		t.Fatalf("expected conserved sum 99.99, got %v", total)
	}
}

func TestAllocateBatchResolvesEachCategoryIndependently(t *testing.T) {
	batch := ExpenseBatch{
		Transportation: ExpenseEntry{Amount: 100, Mode: ModeDivided},
		Moshjid:        ExpenseEntry{Amount: 10, Mode: ModeFixed},
		VanVara:        ExpenseEntry{Amount: 20, Mode: ModeDivided},
		Labour:         ExpenseEntry{Amount: 40, Mode: ModeFixed},
	}
	exp := AllocateBatch(batch, 4)
	if exp.Transportation != 25 {
		t.Fatalf("transportation: expected 25, got %v", exp.Transportation)
	}
	if exp.Moshjid != 10 {
		t.Fatalf("moshjid: expected full fixed amount 10, got %v", exp.Moshjid)
	}
	if exp.VanVara != 5 {
		t.Fatalf("van fare: expected 5, got %v", exp.VanVara)
	}
	if exp.TradingPost != 0 {
		t.Fatalf("trading post: expected 0, got %v", exp.TradingPost)
	}
	if exp.Labour != 40 {
		t.Fatalf("labour: expected 40, got %v", exp.Labour)
	}
	if exp.Sum() != 80 {
		t.Fatalf("sum: expected 80, got %v", exp.Sum())
	}
}
