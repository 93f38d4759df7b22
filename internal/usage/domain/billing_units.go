package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// UnitsKind discriminates the BillingUnits sum type.
type UnitsKind int

const (
	UnitsNone UnitsKind = iota
	UnitsCount
	UnitsFeeApplies
	UnitsPercentageOf
)

// BillingUnits describes what was measured for one fee over one period:
// exactly one of an integer usage count, a yes/no applicability flag, or a
// monetary base a percentage fee is computed against.
type BillingUnits struct {
	kind         UnitsKind
	count        int64
	feeApplies   bool
	percentageOf decimal.Decimal
}

// CountUnits builds a count measurement.
func CountUnits(count int64) BillingUnits {
	return BillingUnits{kind: UnitsCount, count: count}
}

// FeeAppliesUnits builds a binary applicability measurement.
func FeeAppliesUnits(applies bool) BillingUnits {
	return BillingUnits{kind: UnitsFeeApplies, feeApplies: applies}
}

// PercentageOfUnits builds a percentage-base measurement.
func PercentageOfUnits(base decimal.Decimal) BillingUnits {
	return BillingUnits{kind: UnitsPercentageOf, percentageOf: base}
}

func (u BillingUnits) Kind() UnitsKind { return u.kind }

// Count returns the usage count; ok is false for other kinds.
func (u BillingUnits) Count() (int64, bool) {
	return u.count, u.kind == UnitsCount
}

// FeeApplies returns the applicability flag; ok is false for other kinds.
func (u BillingUnits) FeeApplies() (bool, bool) {
	return u.feeApplies, u.kind == UnitsFeeApplies
}

// PercentageOf returns the percentage base; ok is false for other kinds.
func (u BillingUnits) PercentageOf() (decimal.Decimal, bool) {
	return u.percentageOf, u.kind == UnitsPercentageOf
}

// billingUnitsWire matches the dashboard's optional-field object shape.
type billingUnitsWire struct {
	Count        *int64           `json:"count,omitempty"`
	FeeApplies   *bool            `json:"feeApplies,omitempty"`
	PercentageOf *decimal.Decimal `json:"percentageOf,omitempty"`
}

func (u BillingUnits) MarshalJSON() ([]byte, error) {
	var wire billingUnitsWire
	switch u.kind {
	case UnitsCount:
		wire.Count = &u.count
	case UnitsFeeApplies:
		wire.FeeApplies = &u.feeApplies
	case UnitsPercentageOf:
		wire.PercentageOf = &u.percentageOf
	}
	return json.Marshal(wire)
}

func (u *BillingUnits) UnmarshalJSON(data []byte) error {
	var wire billingUnitsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	set := 0
	if wire.Count != nil {
		*u = CountUnits(*wire.Count)
		set++
	}
	if wire.FeeApplies != nil {
		*u = FeeAppliesUnits(*wire.FeeApplies)
		set++
	}
	if wire.PercentageOf != nil {
		*u = PercentageOfUnits(*wire.PercentageOf)
		set++
	}
	if set > 1 {
		return errors.New("billing units must carry exactly one measurement")
	}
	if set == 0 {
		*u = BillingUnits{}
	}
	return nil
}
