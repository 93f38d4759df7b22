package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Fee, error)
	ListActive(ctx context.Context, clientReference string, date Date) ([]Fee, error)
	GetByID(ctx context.Context, id string) (*Fee, error)
}

// CreateRequest mirrors the dashboard's fee creation payload: the client is
// addressed by reference, tiers come without ids.
type CreateRequest struct {
	Enabled                   *bool            `json:"enabled"`
	ClientReference           string           `json:"clientReference"`
	ProductID                 string           `json:"productId"`
	Type                      string           `json:"type"`
	Category                  string           `json:"category"`
	StartDate                 string           `json:"startDate"`
	EndDate                   *string          `json:"endDate"`
	Frequency                 string           `json:"frequency"`
	PeriodMonthOffset         *int             `json:"periodMonthOffset"`
	FeeStructure              string           `json:"feeStructure"`
	Currency                  string           `json:"currency"`
	MonthlyMinimumContributor bool             `json:"monthlyMinimumContributor"`
	IsDiscount                bool             `json:"isDiscount"`
	Description               string           `json:"description"`
	Amount                    *decimal.Decimal `json:"amount"`
	FeeTiers                  []CreateTier     `json:"feeTiers"`
	Metadata                  map[string]any   `json:"metadata"`
}

type CreateTier struct {
	LowerBound int64           `json:"lowerBound"`
	UpperBound int64           `json:"upperBound"`
	Amount     decimal.Decimal `json:"amount"`
}

var (
	ErrInvalidClient     = errors.New("invalid_client")
	ErrInvalidProduct    = errors.New("invalid_product")
	ErrInvalidType       = errors.New("invalid_type")
	ErrInvalidCategory   = errors.New("invalid_category")
	ErrInvalidStartDate  = errors.New("invalid_start_date")
	ErrInvalidEndDate    = errors.New("invalid_end_date")
	ErrInvalidFrequency  = errors.New("invalid_frequency")
	ErrInvalidStructure  = errors.New("invalid_fee_structure")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrMissingTiers      = errors.New("invalid_fee_tiers")
	ErrInvalidTierBounds = errors.New("invalid_tier_bounds")
	ErrOverlappingTiers  = errors.New("overlapping_tiers")
	ErrInvalidTierAmount = errors.New("invalid_tier_amount")
	ErrMissingAmount     = errors.New("invalid_amount")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
