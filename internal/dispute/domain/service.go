package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Dispute, error)
	List(ctx context.Context, req ListRequest) ([]Dispute, error)
	Resolve(ctx context.Context, id string, req ResolveRequest) (*Dispute, error)
}

type CreateRequest struct {
	ClientReference string          `json:"clientReference"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Type            string          `json:"type"`
	Priority        string          `json:"priority"`
	Description     string          `json:"description"`
	Classification  string          `json:"classification"`
	RiskScore       *float64        `json:"riskScore"`
	Metadata        map[string]any  `json:"metadata"`
}

type ListRequest struct {
	ClientReference string `form:"clientReference"`
	Status          string `form:"status"`
}

type ResolveRequest struct {
	Resolution string `json:"resolution"`
}

var (
	ErrInvalidClient     = errors.New("invalid_client")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidType       = errors.New("invalid_type")
	ErrInvalidPriority   = errors.New("invalid_priority")
	ErrInvalidResolution = errors.New("invalid_resolution")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrAlreadyResolved   = errors.New("dispute_already_resolved")
)
