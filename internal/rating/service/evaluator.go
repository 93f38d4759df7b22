package service

import (
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/rating/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	Log *zap.Logger
}

type Evaluator struct {
	log *zap.Logger
}

func NewEvaluator(p Params) domain.Evaluator {
	return &Evaluator{
		log: p.Log.Named("rating.evaluator"),
	}
}

// Evaluate applies one fee to one usage measurement. All monetary math runs
// in fixed-point decimal and the result is rounded half-even to the
// currency's minor-unit precision at the point of emission.
func (e *Evaluator) Evaluate(fee feedomain.Fee, units usagedomain.BillingUnits, periodStart feedomain.Date) (domain.ChargeableFee, error) {
	if !fee.Enabled {
		return domain.ChargeableFee{}, domain.ErrFeeDisabled
	}
	if !fee.ActiveOn(periodStart) {
		return domain.ChargeableFee{}, domain.ErrInactiveFee
	}

	result := domain.ChargeableFee{
		Fee:          fee,
		BillingUnits: units,
	}

	var charge decimal.Decimal
	switch fee.FeeStructure {
	case feedomain.StructureFlat:
		applies, ok := units.FeeApplies()
		if !ok {
			return domain.ChargeableFee{}, domain.ErrUnitMismatch
		}
		if !applies {
			return domain.ChargeableFee{}, domain.ErrFeeNotApplicable
		}
		rate, tier, err := flatRate(fee)
		if err != nil {
			return domain.ChargeableFee{}, err
		}
		charge = rate
		result.AppliedTier = tier

	case feedomain.StructurePercentage:
		base, ok := units.PercentageOf()
		if !ok {
			return domain.ChargeableFee{}, domain.ErrUnitMismatch
		}
		if len(fee.FeeTiers) > 0 {
			// Brackets scale the rate by volume; the base's integer part
			// stands in for the usage count.
			tier := matchTier(fee.FeeTiers, base.IntPart())
			if tier == nil {
				return e.flagged(result, domain.ReviewNoMatchingTier), nil
			}
			charge = base.Mul(tier.Amount).Div(oneHundred)
			result.AppliedTier = tier
		} else {
			if fee.Amount == nil {
				return domain.ChargeableFee{}, domain.ErrMissingRate
			}
			charge = base.Mul(*fee.Amount).Div(oneHundred)
		}

	case feedomain.StructureTiered:
		count, ok := units.Count()
		if !ok {
			return domain.ChargeableFee{}, domain.ErrUnitMismatch
		}
		tier := matchTier(fee.FeeTiers, count)
		if tier == nil {
			return e.flagged(result, domain.ReviewNoMatchingTier), nil
		}
		// Single-bracket charging: the matched tier's flat amount, not a
		// marginal sum across lower brackets.
		charge = tier.Amount
		result.AppliedTier = tier

	default:
		return domain.ChargeableFee{}, domain.ErrMissingRate
	}

	if fee.IsDiscount {
		charge = charge.Neg()
	}

	result.ChargeAmount = charge.RoundBank(minorUnits(fee.Currency))
	return result, nil
}

// flagged records a zero charge that must not be silently invoiced.
func (e *Evaluator) flagged(result domain.ChargeableFee, reason string) domain.ChargeableFee {
	e.log.Warn("fee flagged for manual review",
		zap.String("fee_id", result.Fee.ID.String()),
		zap.String("fee_type", result.Fee.Type),
		zap.String("reason", reason),
	)
	result.ChargeAmount = decimal.Zero
	result.NeedsReview = true
	result.ReviewReason = reason
	return result
}

func flatRate(fee feedomain.Fee) (decimal.Decimal, *feedomain.FeeTier, error) {
	if len(fee.FeeTiers) > 0 {
		tier := fee.FeeTiers[0]
		return tier.Amount, &tier, nil
	}
	if fee.Amount == nil {
		return decimal.Decimal{}, nil, domain.ErrMissingRate
	}
	return *fee.Amount, nil, nil
}

// matchTier returns the unique tier whose inclusive bounds cover count. Tiers
// are validated non-overlapping at catalog time, so first match wins.
func matchTier(tiers []feedomain.FeeTier, count int64) *feedomain.FeeTier {
	for i := range tiers {
		if tiers[i].Contains(count) {
			return &tiers[i]
		}
	}
	return nil
}

// minorUnits returns the decimal places for a currency's minor unit.
func minorUnits(currency string) int32 {
	switch currency {
	case "JPY", "KRW", "VND", "CLP":
		return 0
	case "BHD", "KWD", "OMR", "JOD", "TND":
		return 3
	default:
		return 2
	}
}
