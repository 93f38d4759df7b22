package domain

import (
	"errors"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
)

// Evaluator computes the charge for a single fee. Implementations must be
// pure: same fee, units and period in, same charge out.
type Evaluator interface {
	Evaluate(fee feedomain.Fee, units usagedomain.BillingUnits, periodStart feedomain.Date) (ChargeableFee, error)
}

var (
	ErrFeeDisabled = errors.New("fee_disabled")
	ErrInactiveFee = errors.New("inactive_fee")
	// ErrFeeNotApplicable marks a FLAT fee whose applicability flag is false;
	// the caller omits the fee from the invoice rather than billing zero.
	ErrFeeNotApplicable = errors.New("fee_not_applicable")
	ErrUnitMismatch     = errors.New("unit_mismatch")
	ErrMissingRate      = errors.New("missing_rate")
)
