package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	ResolveReference(ctx context.Context, clientReference string) (*Customer, error)
}

type CreateRequest struct {
	ClientReference string         `json:"clientReference"`
	Name            string         `json:"name"`
	Currency        string         `json:"currency"`
	Metadata        map[string]any `json:"metadata"`
}

var (
	ErrInvalidReference = errors.New("invalid_client_reference")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidID        = errors.New("invalid_id")
	ErrReferenceExists  = errors.New("client_reference_exists")
	ErrNotFound         = errors.New("not_found")
	ErrUnknownClient    = errors.New("unknown_client")
)
