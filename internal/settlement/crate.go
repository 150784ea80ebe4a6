package settlement

// CrateKind distinguishes the two crate holdings shapes that exist in the
// field: a legacy flat count priced by a single named crate type, and the
// current structured shape with separate type_one/type_two counts.
type CrateKind string

const (
	// CrateFlat is the legacy shape: one count, priced by Line.CrateType.
	CrateFlat CrateKind = "flat"
	// CrateTyped is the structured shape with per-type counts.
	CrateTyped CrateKind = "typed"
)

// Crate type keys used by the structured shape and by counterparty
// agreements.
const (
	CrateTypeOne = "type_one"
	CrateTypeTwo = "type_two"
)

// Crate models crate holdings on a line as a tagged variant.
type Crate struct {
	Kind    CrateKind `json:"kind"`
	Qty     float64   `json:"qty,omitempty"`
	TypeOne float64   `json:"type_one,omitempty"`
	TypeTwo float64   `json:"type_two,omitempty"`
}

// Units returns the total crate units on the line.
func (c Crate) Units() float64 {
	if c.Kind == CrateTyped {
		return sanitize(c.TypeOne) + sanitize(c.TypeTwo)
	}
	return sanitize(c.Qty)
}

// CrateTerm is the agreed quantity and unit price for one crate type with a
// specific counterparty. Crate pricing is per-relationship, not global.
type CrateTerm struct {
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// CrateTerms maps crate type key to the agreed term.
type CrateTerms map[string]CrateTerm

// CrateValue computes the crate subtotal for the holdings against the
// counterparty's agreed prices. Missing terms, missing type keys and a nil
// terms table all price at zero; the function never fails.
func CrateValue(c Crate, crateType string, terms CrateTerms) float64 {
	if len(terms) == 0 {
		return 0
	}
	if c.Kind == CrateTyped {
		one := terms[CrateTypeOne].Price * sanitize(c.TypeOne)
		two := terms[CrateTypeTwo].Price * sanitize(c.TypeTwo)
		return round2(one + two)
	}
	return round2(terms[crateType].Price * sanitize(c.Qty))
}
