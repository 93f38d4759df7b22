// Package domain contains the invoice assembly types.
package domain

import (
	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	ratingdomain "github.com/billforge/billforge/internal/rating/domain"
)

// BillingPeriod is the half-open window an invoice covers. Start is
// inclusive, End exclusive.
type BillingPeriod struct {
	Start feedomain.Date `json:"start"`
	End   feedomain.Date `json:"end"`
}

// ReviewFlag points an operator at a charge that was emitted with a zero or
// suspect amount instead of failing the whole invoice.
type ReviewFlag struct {
	FeeID   string `json:"feeId"`
	FeeType string `json:"feeType"`
	Reason  string `json:"reason"`
}

// Invoice is the assembled result for one client and billing date. It is
// computed on demand and never persisted; regenerating with the same catalog
// and usage yields an identical document.
//
// The three category buckets are always present, empty slices included, so
// consumers can iterate without nil checks. Within each bucket charges are
// ordered by fee id.
type Invoice struct {
	ClientReference string                       `json:"clientReference"`
	Currency        string                       `json:"currency"`
	InvoiceDate     feedomain.Date               `json:"invoiceDate"`
	BillingPeriod   BillingPeriod                `json:"billingPeriod"`
	CoreFees        []ratingdomain.ChargeableFee `json:"coreFees"`
	AddOnFees       []ratingdomain.ChargeableFee `json:"addOnFees"`
	PassthroughFees []ratingdomain.ChargeableFee `json:"passthroughFees"`
	AdhocCharges    []adhocdomain.AdhocCharge    `json:"adhocCharges"`
	ReviewFlags     []ReviewFlag                 `json:"reviewFlags"`
}
