package domain

import (
	"context"
	"errors"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/shopspring/decimal"
)

type CreateIngestRequest struct {
	ClientReference string          `json:"clientReference"`
	MeterCode       string          `json:"meterCode"`
	Quantity        int64           `json:"quantity"`
	Amount          decimal.Decimal `json:"amount"`
	RecordedAt      time.Time       `json:"recordedAt"`
	IdempotencyKey  *string         `json:"idempotencyKey"`
	Metadata        map[string]any  `json:"metadata"`
}

type ListUsageRequest struct {
	ClientReference string    `json:"clientReference"`
	MeterCode       string    `json:"meterCode"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
}

type Service interface {
	Ingest(context.Context, CreateIngestRequest) (*UsageRecord, error)
	List(context.Context, ListUsageRequest) ([]UsageRecord, error)
}

// Resolver supplies the point-in-time usage measurement a fee is evaluated
// against. It is the only network/IO-bound collaborator on the invoice path,
// so every call takes a context and the caller owns the timeout.
type Resolver interface {
	Resolve(ctx context.Context, fee feedomain.Fee, periodStart, periodEnd time.Time) (BillingUnits, error)
}

var (
	ErrInvalidClient     = errors.New("invalid_client")
	ErrInvalidMeterCode  = errors.New("invalid_meter_code")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidRecordedAt = errors.New("invalid_recorded_at")
	ErrDuplicateRecord   = errors.New("duplicate_record")
)
