package service

import (
	"testing"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/rating/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return &Evaluator{log: zap.NewNop()}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func baseFee(node *snowflake.Node, structure feedomain.Structure) feedomain.Fee {
	return feedomain.Fee{
		ID:           node.Generate(),
		Enabled:      true,
		ClientID:     node.Generate(),
		ProductID:    "payments",
		Type:         "TRANSACTION_PROCESSING",
		Category:     feedomain.CategoryCore,
		StartDate:    feedomain.NewDate(2025, time.January, 1),
		Frequency:    feedomain.FrequencyMonthly,
		FeeStructure: structure,
		Currency:     "USD",
	}
}

func tier(node *snowflake.Node, lower, upper int64, amount string) feedomain.FeeTier {
	return feedomain.FeeTier{
		ID:         node.Generate(),
		LowerBound: lower,
		UpperBound: upper,
		Amount:     decimal.RequireFromString(amount),
	}
}

func TestEvaluateTieredMatchesSingleBracket(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{
		tier(node, 0, 99, "2.50"),
		tier(node, 100, 999, "2.00"),
	}

	result, err := eval.Evaluate(fee, usagedomain.CountUnits(150), feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, result.ChargeAmount.Equal(decimal.RequireFromString("2.00")))
	require.NotNil(t, result.AppliedTier)
	assert.Equal(t, int64(100), result.AppliedTier.LowerBound)
	assert.False(t, result.NeedsReview)
}

func TestEvaluateTieredBoundsInclusive(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{
		tier(node, 0, 99, "2.50"),
		tier(node, 100, 999, "2.00"),
	}
	date := feedomain.NewDate(2025, time.June, 1)

	for _, tc := range []struct {
		count int64
		want  string
	}{
		{0, "2.50"},
		{99, "2.50"},
		{100, "2.00"},
		{999, "2.00"},
	} {
		result, err := eval.Evaluate(fee, usagedomain.CountUnits(tc.count), date)
		require.NoError(t, err)
		assert.True(t, result.ChargeAmount.Equal(decimal.RequireFromString(tc.want)), "count=%d", tc.count)
	}
}

func TestEvaluateTieredNoMatchingTierFlagsReview(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{
		tier(node, 0, 99, "2.50"),
	}

	result, err := eval.Evaluate(fee, usagedomain.CountUnits(5000), feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, result.ChargeAmount.IsZero())
	assert.True(t, result.NeedsReview)
	assert.Equal(t, domain.ReviewNoMatchingTier, result.ReviewReason)
	assert.Nil(t, result.AppliedTier)
}

func TestEvaluateTieredUnitMismatch(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{tier(node, 0, 99, "2.50")}

	_, err := eval.Evaluate(fee, usagedomain.FeeAppliesUnits(true), feedomain.NewDate(2025, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrUnitMismatch)
}

func TestEvaluatePercentage(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	rate := decimal.RequireFromString("5")
	fee := baseFee(node, feedomain.StructurePercentage)
	fee.Amount = &rate

	result, err := eval.Evaluate(fee,
		usagedomain.PercentageOfUnits(decimal.RequireFromString("1000.00")),
		feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, result.ChargeAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestEvaluatePercentageRoundsHalfEven(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	rate := decimal.RequireFromString("2.5")
	fee := baseFee(node, feedomain.StructurePercentage)
	fee.Amount = &rate

	// 5.00 * 2.5% = 0.125, banker's rounding at cents gives 0.12.
	result, err := eval.Evaluate(fee,
		usagedomain.PercentageOfUnits(decimal.RequireFromString("5.00")),
		feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.Equal(t, "0.12", result.ChargeAmount.StringFixed(2))
}

func TestEvaluatePercentageBrackets(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructurePercentage)
	fee.FeeTiers = []feedomain.FeeTier{
		tier(node, 0, 999, "5"),
		tier(node, 1000, 999999, "3"),
	}

	result, err := eval.Evaluate(fee,
		usagedomain.PercentageOfUnits(decimal.RequireFromString("2000.00")),
		feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, result.ChargeAmount.Equal(decimal.RequireFromString("60.00")))
	require.NotNil(t, result.AppliedTier)
	assert.Equal(t, int64(1000), result.AppliedTier.LowerBound)
}

func TestEvaluatePercentageMissingRate(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructurePercentage)

	_, err := eval.Evaluate(fee,
		usagedomain.PercentageOfUnits(decimal.RequireFromString("100")),
		feedomain.NewDate(2025, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrMissingRate)
}

func TestEvaluateFlat(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	amount := decimal.RequireFromString("99.00")
	fee := baseFee(node, feedomain.StructureFlat)
	fee.Amount = &amount

	result, err := eval.Evaluate(fee, usagedomain.FeeAppliesUnits(true), feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)
	assert.True(t, result.ChargeAmount.Equal(amount))

	_, err = eval.Evaluate(fee, usagedomain.FeeAppliesUnits(false), feedomain.NewDate(2025, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrFeeNotApplicable)
}

func TestEvaluateDiscountNegatesCharge(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	amount := decimal.RequireFromString("25.00")
	fee := baseFee(node, feedomain.StructureFlat)
	fee.Amount = &amount
	fee.IsDiscount = true

	result, err := eval.Evaluate(fee, usagedomain.FeeAppliesUnits(true), feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, result.ChargeAmount.Equal(decimal.RequireFromString("-25.00")))
	assert.True(t, result.ChargeAmount.IsNegative())
}

func TestEvaluateDisabledAndInactiveFees(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{tier(node, 0, 999, "1.00")}

	disabled := fee
	disabled.Enabled = false
	_, err := eval.Evaluate(disabled, usagedomain.CountUnits(10), feedomain.NewDate(2025, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrFeeDisabled)

	_, err = eval.Evaluate(fee, usagedomain.CountUnits(10), feedomain.NewDate(2024, time.December, 31))
	assert.ErrorIs(t, err, domain.ErrInactiveFee)

	end := feedomain.NewDate(2025, time.March, 31)
	expired := fee
	expired.EndDate = &end
	_, err = eval.Evaluate(expired, usagedomain.CountUnits(10), feedomain.NewDate(2025, time.June, 1))
	assert.ErrorIs(t, err, domain.ErrInactiveFee)
}

func TestEvaluateZeroDecimalCurrency(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	rate := decimal.RequireFromString("3")
	fee := baseFee(node, feedomain.StructurePercentage)
	fee.Currency = "JPY"
	fee.Amount = &rate

	// 12345 * 3% = 370.35, JPY has no minor unit.
	result, err := eval.Evaluate(fee,
		usagedomain.PercentageOfUnits(decimal.RequireFromString("12345")),
		feedomain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	assert.Equal(t, "370", result.ChargeAmount.String())
}

func TestEvaluateDeterministic(t *testing.T) {
	node := mustNode(t)
	eval := newEvaluator(t)

	fee := baseFee(node, feedomain.StructureTiered)
	fee.FeeTiers = []feedomain.FeeTier{
		tier(node, 0, 99, "2.50"),
		tier(node, 100, 999, "2.00"),
	}
	date := feedomain.NewDate(2025, time.June, 1)

	first, err := eval.Evaluate(fee, usagedomain.CountUnits(150), date)
	require.NoError(t, err)
	second, err := eval.Evaluate(fee, usagedomain.CountUnits(150), date)
	require.NoError(t, err)

	assert.True(t, first.ChargeAmount.Equal(second.ChargeAmount))
	assert.Equal(t, first.AppliedTier.ID, second.AppliedTier.ID)
}
