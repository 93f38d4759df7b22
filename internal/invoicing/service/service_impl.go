package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/billforge/billforge/internal/config"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/invoicing/domain"
	"github.com/billforge/billforge/internal/observability/metrics"
	ratingdomain "github.com/billforge/billforge/internal/rating/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config    config.Config
	Log       *zap.Logger
	Customers customerdomain.Service
	Catalog   feedomain.Service
	Usage     usagedomain.Resolver
	Evaluator ratingdomain.Evaluator
	Adhoc     adhocdomain.Service
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log            *zap.Logger
	customers      customerdomain.Service
	catalog        feedomain.Service
	usage          usagedomain.Resolver
	evaluator      ratingdomain.Evaluator
	adhoc          adhocdomain.Service
	metrics        *metrics.Metrics
	resolveTimeout time.Duration
}

func New(p Params) domain.Service {
	timeout := p.Config.UsageResolveTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		log:            p.Log.Named("invoicing.service"),
		customers:      p.Customers,
		catalog:        p.Catalog,
		usage:          p.Usage,
		evaluator:      p.Evaluator,
		adhoc:          p.Adhoc,
		metrics:        p.Metrics,
		resolveTimeout: timeout,
	}
}

// GenerateInvoice assembles an invoice for one client and billing date.
//
// The document is computed on demand from the fee catalog and resolved usage;
// nothing is persisted. A client with no active fees yields a valid invoice
// with empty buckets. A usage resolution failure aborts the whole request:
// a partially priced invoice is worse than no invoice.
func (s *Service) GenerateInvoice(ctx context.Context, req domain.GenerateRequest) (*domain.Invoice, error) {
	customer, err := s.customers.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, err
	}

	invoiceDate, err := feedomain.ParseDate(req.InvoiceDate)
	if err != nil {
		return nil, domain.ErrInvalidInvoiceDate
	}

	fees, err := s.catalog.ListActive(ctx, customer.ClientReference, invoiceDate)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		ClientReference: customer.ClientReference,
		Currency:        customer.Currency,
		InvoiceDate:     invoiceDate,
		CoreFees:        []ratingdomain.ChargeableFee{},
		AddOnFees:       []ratingdomain.ChargeableFee{},
		PassthroughFees: []ratingdomain.ChargeableFee{},
		AdhocCharges:    []adhocdomain.AdhocCharge{},
		ReviewFlags:     []domain.ReviewFlag{},
	}

	// Period bounds come from the widest cadence among the client's fees so
	// ad-hoc charges and usage queries share one window. Individual fees
	// still resolve against their own cadence below.
	invoicePeriodStart, invoicePeriodEnd := invoiceDate.Time, invoiceDate.Time
	if len(fees) == 0 {
		// No catalog fees still leaves the invoice covering its calendar
		// month, so approved ad-hoc charges in that month ride along.
		invoicePeriodStart = time.Date(invoiceDate.Year(), invoiceDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		invoicePeriodEnd = invoicePeriodStart.AddDate(0, 1, 0)
	}

	for _, fee := range fees {
		periodStart, periodEnd := billingPeriod(invoiceDate, fee)
		if periodStart.Before(invoicePeriodStart) {
			invoicePeriodStart = periodStart
		}
		if periodEnd.After(invoicePeriodEnd) {
			invoicePeriodEnd = periodEnd
		}

		units, err := s.resolveUsage(ctx, fee, periodStart, periodEnd)
		if err != nil {
			s.log.Error("usage resolution failed, aborting invoice",
				zap.String("client_reference", customer.ClientReference),
				zap.String("fee_id", fee.ID.String()),
				zap.String("fee_type", fee.Type),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: fee %s: %v", domain.ErrUsageUnavailable, fee.ID, err)
		}

		// A fee created mid-period is still billable: the catalog filtered on
		// the invoice date, so evaluate from the later of the window start and
		// the fee's own start.
		evaluationDate := feedomain.DateOf(periodStart)
		if evaluationDate.Before(fee.StartDate) {
			evaluationDate = fee.StartDate
		}

		charge, err := s.evaluator.Evaluate(fee, units, evaluationDate)
		if err != nil {
			if errors.Is(err, ratingdomain.ErrFeeNotApplicable) ||
				errors.Is(err, ratingdomain.ErrInactiveFee) ||
				errors.Is(err, ratingdomain.ErrFeeDisabled) {
				// Filtered fees never abort the invoice.
				continue
			}
			return nil, err
		}

		if charge.NeedsReview {
			invoice.ReviewFlags = append(invoice.ReviewFlags, domain.ReviewFlag{
				FeeID:   fee.ID.String(),
				FeeType: fee.Type,
				Reason:  charge.ReviewReason,
			})
			s.metrics.RecordFeeFlagged(ctx, charge.ReviewReason)
		}

		switch fee.Category.Normalize() {
		case feedomain.CategoryCore:
			invoice.CoreFees = append(invoice.CoreFees, charge)
		case feedomain.CategoryAddOn:
			invoice.AddOnFees = append(invoice.AddOnFees, charge)
		case feedomain.CategoryPassthrough:
			invoice.PassthroughFees = append(invoice.PassthroughFees, charge)
		default:
			// Unknown categories never reach the invoice body. Flag and move
			// on rather than guessing a bucket.
			s.log.Warn("fee with unknown category excluded from invoice",
				zap.String("fee_id", fee.ID.String()),
				zap.String("category", string(fee.Category)),
			)
			invoice.ReviewFlags = append(invoice.ReviewFlags, domain.ReviewFlag{
				FeeID:   fee.ID.String(),
				FeeType: fee.Type,
				Reason:  ratingdomain.ReviewUnknownCategory,
			})
			s.metrics.RecordFeeFlagged(ctx, ratingdomain.ReviewUnknownCategory)
		}
	}

	invoice.BillingPeriod = domain.BillingPeriod{
		Start: feedomain.DateOf(invoicePeriodStart),
		End:   feedomain.DateOf(invoicePeriodEnd),
	}

	if invoicePeriodEnd.After(invoicePeriodStart) {
		adhocCharges, err := s.adhoc.ListApproved(ctx, customer.ClientReference, invoicePeriodStart, invoicePeriodEnd)
		if err != nil {
			return nil, err
		}
		if adhocCharges != nil {
			invoice.AdhocCharges = adhocCharges
		}
	}

	s.metrics.RecordInvoiceGenerated(ctx, customer.ClientReference)
	s.log.Info("invoice generated",
		zap.String("client_reference", customer.ClientReference),
		zap.String("invoice_date", invoiceDate.String()),
		zap.Int("core_fees", len(invoice.CoreFees)),
		zap.Int("add_on_fees", len(invoice.AddOnFees)),
		zap.Int("passthrough_fees", len(invoice.PassthroughFees)),
		zap.Int("review_flags", len(invoice.ReviewFlags)),
	)
	return invoice, nil
}

func (s *Service) resolveUsage(ctx context.Context, fee feedomain.Fee, periodStart, periodEnd time.Time) (usagedomain.BillingUnits, error) {
	resolveCtx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()
	return s.usage.Resolve(resolveCtx, fee, periodStart, periodEnd)
}

// billingPeriod derives the half-open usage window a fee covers when invoiced
// on the given date. The window is the calendar month containing the invoice
// date, stretched to the fee's cadence and shifted by its month offset.
func billingPeriod(invoiceDate feedomain.Date, fee feedomain.Fee) (time.Time, time.Time) {
	anchor := invoiceDate.Time
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := 1
	switch fee.Frequency {
	case feedomain.FrequencyQuarterly:
		months = 3
	case feedomain.FrequencyYearly:
		months = 12
	}

	// Multi-month cadences bill at period end: the window closes with the
	// invoice month rather than opening with it.
	if months > 1 {
		start = start.AddDate(0, -(months - 1), 0)
	}
	if fee.PeriodMonthOffset != nil {
		start = start.AddDate(0, *fee.PeriodMonthOffset, 0)
	}

	return start, start.AddDate(0, months, 0)
}
