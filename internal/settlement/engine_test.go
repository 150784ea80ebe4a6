package settlement

import (
	"math"
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func defaultEngine() Engine { return NewEngine(DefaultOptions()) }

func TestComputeCartDividedOverheadNoCrates(t *testing.T) {
	lines := []Line{
		{ID: "a", ProductName: "Banana", Cost: 10, Crate: Crate{Kind: CrateFlat, Qty: 5}},
		{ID: "b", ProductName: "Apple", Cost: 20, Crate: Crate{Kind: CrateFlat, Qty: 2}},
	}
	batch := ExpenseBatch{Transportation: ExpenseEntry{Amount: 100, Mode: ModeDivided}}

	out := defaultEngine().ComputeCart(lines, batch, nil)

	for i, l := range out {
		if l.Transportation != 50 {
			t.Fatalf("line %d transportation: expected 50, got %v", i, l.Transportation)
		}
		if l.Expenses != 50 {
			t.Fatalf("line %d expenses: expected 50, got %v", i, l.Expenses)
		}
		if l.Commission != 0 {
			t.Fatalf("line %d commission: expected 0 for non-eligible product, got %v", i, l.Commission)
		}
	}
	if out[0].Total != 100 {
		t.Fatalf("line 1 total: expected 10*5+50 = 100, got %v", out[0].Total)
	}
	if out[1].Total != 90 {
		t.Fatalf("line 2 total: expected 20*2+50 = 90, got %v", out[1].Total)
	}
}

func TestComputeLineCommissionEligible(t *testing.T) {
	line := Line{ProductName: "Mango", Cost: 10, Crate: Crate{Kind: CrateFlat, Qty: 10}, CommissionRate: floatPtr(10)}
	out := defaultEngine().ComputeLine(line, Expenses{}, nil)
	if out.Commission != 10 {
		t.Fatalf("commission: expected 10.00 on base 100, got %v", out.Commission)
	}
	if out.Total != 110 {
		t.Fatalf("total: expected 110.00, got %v", out.Total)
	}
	if out.CratePrice != 0 {
		t.Fatalf("crate price: expected 0 without counterparty, got %v", out.CratePrice)
	}
}

func TestComputeLineCratePricingTypedShape(t *testing.T) {
	terms := CrateTerms{
		CrateTypeOne: {Price: 20},
		CrateTypeTwo: {Price: 15},
	}
	line := Line{
		ProductName:        "Pineapple",
		CounterpartySerial: 5,
		Cost:               0,
		Crate:              Crate{Kind: CrateTyped, TypeOne: 3, TypeTwo: 2},
	}
	out := defaultEngine().ComputeLine(line, Expenses{}, terms)
	if out.CratePrice != 90 {
		t.Fatalf("crate price: expected 90.00, got %v", out.CratePrice)
	}
	// Zero base means commission contributes nothing even for an eligible
	// product; crate charges are never commission-bearing.
	if out.Commission != 0 {
		t.Fatalf("commission: expected 0 on zero base, got %v", out.Commission)
	}
	if out.Total != 90 {
		t.Fatalf("total: expected 90.00, got %v", out.Total)
	}
}

func TestComputeCartMissingCounterparty(t *testing.T) {
	lines := []Line{{ProductName: "Mango", CounterpartySerial: 999, Cost: 5, Crate: Crate{Kind: CrateFlat, Qty: 3}}}
	known := map[int64]CrateTerms{5: {"plastic": {Price: 10}}}
	lookup := func(serial int64) CrateTerms { return known[serial] }
	out := defaultEngine().ComputeCart(lines, ExpenseBatch{}, lookup)
	if out[0].CratePrice != 0 {
		t.Fatalf("crate price: expected 0 for unknown counterparty, got %v", out[0].CratePrice)
	}
}

func TestCommissionGating(t *testing.T) {
	eng := defaultEngine()
	for _, name := range []string{"Banana", "Green Apple", "Litchi"} {
		out := eng.ComputeLine(Line{ProductName: name, Cost: 100, Crate: Crate{Kind: CrateFlat, Qty: 1}}, Expenses{}, nil)
		if out.Commission != 0 {
			t.Fatalf("%s: expected no commission, got %v", name, out.Commission)
		}
	}
	for _, name := range []string{"mango", "Himsagar MANGO", "Honey Pineapple"} {
		out := eng.ComputeLine(Line{ProductName: name, Cost: 100, Crate: Crate{Kind: CrateFlat, Qty: 1}}, Expenses{}, nil)
		if out.Commission <= 0 {
			t.Fatalf("%s: expected commission > 0, got %v", name, out.Commission)
		}
	}
}

func TestCommissionDefaultRateAppliesWhenUnset(t *testing.T) {
	line := Line{ProductName: "Mango", Cost: 50, Crate: Crate{Kind: CrateFlat, Qty: 2}}
	out := defaultEngine().ComputeLine(line, Expenses{}, nil)
	if out.Commission != 10 {
		t.Fatalf("expected default 10%% on base 100, got %v", out.Commission)
	}
}

func TestExplicitZeroCommissionRespectedByDefault(t *testing.T) {
	line := Line{ProductName: "Mango", Cost: 50, Crate: Crate{Kind: CrateFlat, Qty: 2}, CommissionRate: floatPtr(0)}
	out := defaultEngine().ComputeLine(line, Expenses{}, nil)
	if out.Commission != 0 {
		t.Fatalf("expected explicit zero rate to suppress commission, got %v", out.Commission)
	}
	if out.Total != 100 {
		t.Fatalf("expected total 100, got %v", out.Total)
	}
}

func TestZeroCommissionMeansDefaultFlag(t *testing.T) {
	eng := NewEngine(Options{ExpensesInBase: true, ZeroCommissionMeansDefault: true, DefaultCommissionRate: 10})
	line := Line{ProductName: "Mango", Cost: 50, Crate: Crate{Kind: CrateFlat, Qty: 2}, CommissionRate: floatPtr(0)}
	out := eng.ComputeLine(line, Expenses{}, nil)
	if out.Commission != 10 {
		t.Fatalf("expected zero rate to fall back to default 10%%, got %v", out.Commission)
	}
}

func TestExpensesInBaseMakesOverheadCommissionBearing(t *testing.T) {
	line := Line{ProductName: "Mango", Cost: 10, Crate: Crate{Kind: CrateFlat, Qty: 10}}
	exp := Expenses{Transportation: 100}

	withBase := NewEngine(Options{ExpensesInBase: true, DefaultCommissionRate: 10}).ComputeLine(line, exp, nil)
	if withBase.Commission != 20 {
		t.Fatalf("expected commission on 200 base, got %v", withBase.Commission)
	}
	if withBase.Total != 220 {
		t.Fatalf("expected total 220, got %v", withBase.Total)
	}

	without := NewEngine(Options{ExpensesInBase: false, DefaultCommissionRate: 10}).ComputeLine(line, exp, nil)
	if without.Commission != 10 {
		t.Fatalf("expected commission on 100 base only, got %v", without.Commission)
	}
	// Overhead still lands on the total even when it is not commission-bearing.
	if without.Total != 210 {
		t.Fatalf("expected total 210, got %v", without.Total)
	}
}

func TestRecomputeLineDropsExpenses(t *testing.T) {
	line := Line{
		ProductName:    "Mango",
		Cost:           10,
		Crate:          Crate{Kind: CrateFlat, Qty: 10},
		CommissionRate: floatPtr(10),
		Transportation: 50,
		Expenses:       50,
		Total:          165,
	}
	out := defaultEngine().RecomputeLine(line, nil)
	if out.Expenses != 0 || out.Transportation != 0 {
		t.Fatalf("expected expenses zeroed, got %v / %v", out.Expenses, out.Transportation)
	}
	if out.Total != 110 {
		t.Fatalf("expected total 110 without expenses, got %v", out.Total)
	}
}

func TestComputeLineIsPureAndIdempotent(t *testing.T) {
	line := Line{ProductName: "Mango", Cost: 12.345, Crate: Crate{Kind: CrateTyped, TypeOne: 2, TypeTwo: 1}}
	exp := Expenses{Transportation: 33.33, Labour: 10}
	terms := CrateTerms{CrateTypeOne: {Price: 7.77}, CrateTypeTwo: {Price: 3.21}}

	eng := defaultEngine()
	before := line
	first := eng.ComputeLine(line, exp, terms)
	second := eng.ComputeLine(line, exp, terms)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(line, before) {
		t.Fatalf("input line was mutated: %+v", line)
	}
}

func TestRoundingClosure(t *testing.T) {
	eng := defaultEngine()
	line := Line{ProductName: "Pineapple", Cost: 3.333, Crate: Crate{Kind: CrateTyped, TypeOne: 7, TypeTwo: 3}, CommissionRate: floatPtr(7.5)}
	exp := AllocateBatch(ExpenseBatch{
		Transportation: ExpenseEntry{Amount: 100, Mode: ModeDivided},
		Moshjid:        ExpenseEntry{Amount: 11.119, Mode: ModeFixed},
		Labour:         ExpenseEntry{Amount: 7.777, Mode: ModeDivided},
	}, 3)
	terms := CrateTerms{CrateTypeOne: {Price: 9.99}, CrateTypeTwo: {Price: 5.55}}
	out := eng.ComputeLine(line, exp, terms)
	for field, v := range map[string]float64{
		"transportation": out.Transportation,
		"moshjid":        out.Moshjid,
		"van_vara":       out.VanVara,
		"trading_post":   out.TradingPost,
		"labour":         out.Labour,
		"expenses":       out.Expenses,
		"commission":     out.Commission,
		"crate_price":    out.CratePrice,
		"total":          out.Total,
	} {
		scaled := v * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Fatalf("%s carries more than 2 decimals: %v", field, v)
		}
	}
	if out.Expenses != round2(out.Transportation+out.Moshjid+out.VanVara+out.TradingPost+out.Labour) {
		t.Fatalf("expenses %v does not equal the sum of its categories", out.Expenses)
	}
}

func TestComputeLineNonFiniteInputsDegradeToZero(t *testing.T) {
	line := Line{ProductName: "Banana", Cost: math.NaN(), Crate: Crate{Kind: CrateFlat, Qty: math.Inf(1)}}
	out := defaultEngine().ComputeLine(line, Expenses{}, nil)
	if out.Total != 0 {
		t.Fatalf("expected degraded total 0, got %v", out.Total)
	}
}

func TestTotalNeverNegative(t *testing.T) {
	line := Line{ProductName: "Banana", Cost: -10, Crate: Crate{Kind: CrateFlat, Qty: 5}}
	out := defaultEngine().ComputeLine(line, Expenses{}, nil)
	if out.Total < 0 {
		t.Fatalf("expected clamped total, got %v", out.Total)
	}
}
