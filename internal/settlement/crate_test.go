package settlement

import "testing"

func TestCrateValueTypedShape(t *testing.T) {
	terms := CrateTerms{
		CrateTypeOne: {Price: 20},
		CrateTypeTwo: {Price: 15},
	}
	crate := Crate{Kind: CrateTyped, TypeOne: 3, TypeTwo: 2}
	if got := CrateValue(crate, "", terms); got != 90 {
		t.Fatalf("expected 3*20 + 2*15 = 90, got %v", got)
	}
}

func TestCrateValueFlatShape(t *testing.T) {
	terms := CrateTerms{"plastic": {Price: 12.5}}
	crate := Crate{Kind: CrateFlat, Qty: 4}
	if got := CrateValue(crate, "plastic", terms); got != 50 {
		t.Fatalf("expected 4*12.50 = 50, got %v", got)
	}
}

func TestCrateValueMissingTypeKeyIsZero(t *testing.T) {
	terms := CrateTerms{"plastic": {Price: 12.5}}
	crate := Crate{Kind: CrateFlat, Qty: 4}
	if got := CrateValue(crate, "wooden", terms); got != 0 {
		t.Fatalf("expected 0 for absent crate type, got %v", got)
	}
}

func TestCrateValueNilTermsIsZero(t *testing.T) {
	crate := Crate{Kind: CrateTyped, TypeOne: 7, TypeTwo: 1}
	if got := CrateValue(crate, "", nil); got != 0 {
		t.Fatalf("expected 0 for missing counterparty, got %v", got)
	}
}

func TestCrateValueTypedWithOneSideMissing(t *testing.T) {
	terms := CrateTerms{CrateTypeOne: {Price: 10}}
	crate := Crate{Kind: CrateTyped, TypeOne: 2, TypeTwo: 5}
	if got := CrateValue(crate, "", terms); got != 20 {
		t.Fatalf("expected only priced type to count, got %v", got)
	}
}

func TestCrateUnits(t *testing.T) {
	flat := Crate{Kind: CrateFlat, Qty: 6}
	if got := flat.Units(); got != 6 {
		t.Fatalf("flat units: expected 6, got %v", got)
	}
	typed := Crate{Kind: CrateTyped, TypeOne: 2.5, TypeTwo: 1.5}
	if got := typed.Units(); got != 4 {
		t.Fatalf("typed units: expected 4, got %v", got)
	}
}
