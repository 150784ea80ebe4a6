// Package settlement apportions shared overhead, crate charges and
// commission across the heterogeneous lines of a wholesale sale or purchase
// cart. It is pure: every entry point takes snapshots and returns new
// values, and malformed numeric input degrades to zero instead of failing.
package settlement

import "strings"

// Line is one row in a sales or purchase cart. The computed fields are only
// meaningful after the line has passed through ComputeLine or RecomputeLine.
type Line struct {
	ID                 string   `json:"id"`
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	CounterpartySerial int64    `json:"counterparty_serial"`
	Cost               float64  `json:"cost"`
	Crate              Crate    `json:"crate"`
	CrateType          string   `json:"crate_type,omitempty"`
	CommissionRate     *float64 `json:"commission_rate,omitempty"`

	Transportation float64 `json:"transportation"`
	Moshjid        float64 `json:"moshjid"`
	VanVara        float64 `json:"van_vara"`
	TradingPost    float64 `json:"trading_post"`
	Labour         float64 `json:"labour"`
	Expenses       float64 `json:"expenses"`
	Commission     float64 `json:"commission"`
	CratePrice     float64 `json:"crate_price"`
	Total          float64 `json:"total"`
}

// Options controls the calculator behaviours that diverged between the
// historical implementations. Both are deliberate, named switches rather
// than a silently unified rule.
type Options struct {
	// ExpensesInBase folds allocated overhead into the commission base, so
	// overhead becomes commission-bearing. When false, overhead is still
	// part of the line total but commission applies to cost*units only.
	ExpensesInBase bool
	// ZeroCommissionMeansDefault treats an explicit commission rate of 0 as
	// "use the default rate". When false an explicit zero suppresses
	// commission entirely.
	ZeroCommissionMeansDefault bool
	// DefaultCommissionRate is a percentage applied to commission-eligible
	// lines that carry no rate of their own. Zero or negative falls back
	// to 10.
	DefaultCommissionRate float64
}

// DefaultOptions returns the production defaults: overhead is
// commission-bearing and an explicit zero rate is respected.
func DefaultOptions() Options {
	return Options{ExpensesInBase: true, DefaultCommissionRate: 10}
}

// Engine folds allocated expenses, crate charges and commission into line
// totals. The zero value uses DefaultOptions.
type Engine struct {
	opts Options
}

// NewEngine constructs an engine with normalised options.
func NewEngine(opts Options) Engine {
	if opts.DefaultCommissionRate <= 0 {
		opts.DefaultCommissionRate = 10
	}
	return Engine{opts: opts}
}

// Options returns the engine's effective options.
func (e Engine) Options() Options {
	if e.opts.DefaultCommissionRate <= 0 {
		return NewEngine(e.opts).opts
	}
	return e.opts
}

// Commissionable reports whether the product participates in commission.
// The eligibility rule is a literal substring match and is not configurable.
func Commissionable(productName string) bool {
	name := strings.ToLower(productName)
	return strings.Contains(name, "mango") || strings.Contains(name, "pineapple")
}

func (e Engine) commissionRate(l Line) float64 {
	if !Commissionable(l.ProductName) {
		return 0
	}
	opts := e.Options()
	def := opts.DefaultCommissionRate / 100
	if l.CommissionRate == nil {
		return def
	}
	rate := sanitize(*l.CommissionRate)
	if rate == 0 && opts.ZeroCommissionMeansDefault {
		return def
	}
	if rate < 0 {
		return 0
	}
	return rate / 100
}

// ComputeLine returns a copy of the line with every computed field set from
// the allocated per-line expenses and the counterparty's crate terms. The
// input line is never mutated.
func (e Engine) ComputeLine(l Line, exp Expenses, terms CrateTerms) Line {
	out := l
	out.Transportation = round2(exp.Transportation)
	out.Moshjid = round2(exp.Moshjid)
	out.VanVara = round2(exp.VanVara)
	out.TradingPost = round2(exp.TradingPost)
	out.Labour = round2(exp.Labour)
	out.Expenses = exp.Sum()

	units := l.Crate.Units()
	goods := sanitize(l.Cost) * units

	base := goods
	if e.Options().ExpensesInBase {
		base += out.Expenses
	}

	rate := e.commissionRate(l)
	out.Commission = round2(base * rate)

	afterCommission := base
	if rate > 0 {
		afterCommission = round2(base * (1 + rate))
	}

	out.CratePrice = CrateValue(l.Crate, l.CrateType, terms)

	total := afterCommission + out.CratePrice
	if !e.Options().ExpensesInBase {
		total += out.Expenses
	}
	out.Total = round2(total)
	if out.Total < 0 {
		out.Total = 0
	}
	return out
}

// RecomputeLine repeats the calculation with zero expenses. It serves the
// crate-count and commission-only edits that happen without re-entering the
// expense form.
func (e Engine) RecomputeLine(l Line, terms CrateTerms) Line {
	return e.ComputeLine(l, Expenses{}, terms)
}

// TermsLookup resolves a counterparty serial to its crate terms. A nil
// lookup or a miss yields nil terms, which price every crate at zero.
type TermsLookup func(serial int64) CrateTerms

// ComputeCart allocates the batch once against the cart size and folds every
// line. It returns a new slice; the input snapshot is left untouched.
func (e Engine) ComputeCart(lines []Line, batch ExpenseBatch, lookup TermsLookup) []Line {
	exp := AllocateBatch(batch, len(lines))
	out := make([]Line, len(lines))
	for i, l := range lines {
		var terms CrateTerms
		if lookup != nil {
			terms = lookup(l.CounterpartySerial)
		}
		out[i] = e.ComputeLine(l, exp, terms)
	}
	return out
}

// RecomputeCart folds every line with zero expenses, preserving whatever
// commission rates are present.
func (e Engine) RecomputeCart(lines []Line, lookup TermsLookup) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		var terms CrateTerms
		if lookup != nil {
			terms = lookup(l.CounterpartySerial)
		}
		out[i] = e.RecomputeLine(l, terms)
	}
	return out
}
