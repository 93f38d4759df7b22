package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*AdhocCharge, error)
	List(ctx context.Context, clientReference string) ([]AdhocCharge, error)
	Approve(ctx context.Context, id string) (*AdhocCharge, error)
	Delete(ctx context.Context, id string) error
	// ListApproved returns approved charges dated inside [periodStart, periodEnd).
	ListApproved(ctx context.Context, clientReference string, periodStart, periodEnd time.Time) ([]AdhocCharge, error)
}

type CreateRequest struct {
	ClientReference string          `json:"clientReference"`
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Basis           string          `json:"basis"`
	FeeStructure    string          `json:"feeStructure"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ChargeDate      string          `json:"chargeDate"`
	Metadata        map[string]any  `json:"metadata"`
}

var (
	ErrInvalidClient     = errors.New("invalid_client")
	ErrInvalidCategory   = errors.New("invalid_category")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidChargeDate = errors.New("invalid_charge_date")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrAlreadyDecided    = errors.New("charge_already_decided")
)
