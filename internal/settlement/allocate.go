package settlement

// Mode selects how an overhead amount is applied across cart lines.
type Mode string

const (
	// ModeDivided splits the amount equally across all lines.
	ModeDivided Mode = "divided"
	// ModeFixed applies the full amount to every line. Any unknown mode is
	// treated as fixed.
	ModeFixed Mode = "fixed"
)

// ExpenseEntry is one overhead amount together with its allocation mode.
type ExpenseEntry struct {
	Amount float64 `json:"amount"`
	Mode   Mode    `json:"mode"`
}

// ExpenseBatch is a one-time entered form of overhead amounts. Each of the
// five named categories carries an independent allocation mode.
type ExpenseBatch struct {
	Transportation ExpenseEntry `json:"transportation"`
	Moshjid        ExpenseEntry `json:"moshjid"`
	VanVara        ExpenseEntry `json:"van_vara"`
	TradingPost    ExpenseEntry `json:"trading_post"`
	Labour         ExpenseEntry `json:"labour"`
}

// Expenses holds the per-line allocated overhead values. When a category is
// divided the value is identical across lines; when fixed, every line carries
// the full amount.
type Expenses struct {
	Transportation float64 `json:"transportation"`
	Moshjid        float64 `json:"moshjid"`
	VanVara        float64 `json:"van_vara"`
	TradingPost    float64 `json:"trading_post"`
	Labour         float64 `json:"labour"`
}

// Sum returns the combined per-line overhead, rounded to two decimals.
func (e Expenses) Sum() float64 {
	return round2(e.Transportation + e.Moshjid + e.VanVara + e.TradingPost + e.Labour)
}

// Allocate resolves one overhead amount to its per-line value. A divided
// amount over an empty cart returns 0 rather than a division fault.
func Allocate(amount float64, mode Mode, lineCount int) float64 {
	amount = sanitize(amount)
	if mode == ModeDivided {
		if lineCount <= 0 {
			return 0
		}
		return round2(amount / float64(lineCount))
	}
	return round2(amount)
}

// AllocateBatch resolves every category of the batch independently.
func AllocateBatch(batch ExpenseBatch, lineCount int) Expenses {
	return Expenses{
		Transportation: Allocate(batch.Transportation.Amount, batch.Transportation.Mode, lineCount),
		Moshjid:        Allocate(batch.Moshjid.Amount, batch.Moshjid.Mode, lineCount),
		VanVara:        Allocate(batch.VanVara.Amount, batch.VanVara.Mode, lineCount),
		TradingPost:    Allocate(batch.TradingPost.Amount, batch.TradingPost.Mode, lineCount),
		Labour:         Allocate(batch.Labour.Amount, batch.Labour.Mode, lineCount),
	}
}
