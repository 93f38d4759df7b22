// Package domain contains the evaluation result types for fee rating.
package domain

import (
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/shopspring/decimal"
)

// Review reasons attached to charges that need manual attention.
const (
	ReviewNoMatchingTier  = "no_matching_tier"
	ReviewUnknownCategory = "unknown_category"
)

// ChargeableFee is the evaluated result of applying one fee to one usage
// measurement. It is ephemeral: computed fresh per invoice request and never
// persisted.
type ChargeableFee struct {
	Fee          feedomain.Fee            `json:"fee"`
	ChargeAmount decimal.Decimal          `json:"chargeAmount"`
	BillingUnits usagedomain.BillingUnits `json:"billingUnits"`
	AppliedTier  *feedomain.FeeTier       `json:"appliedTier,omitempty"`
	NeedsReview  bool                     `json:"needsReview,omitempty"`
	ReviewReason string                   `json:"reviewReason,omitempty"`
}
