package domain

import (
	"context"
	"errors"
)

type Service interface {
	// GenerateInvoice evaluates every active fee for the client on the given
	// invoice date and assembles the result into category buckets.
	GenerateInvoice(ctx context.Context, req GenerateRequest) (*Invoice, error)
}

type GenerateRequest struct {
	ClientReference string `json:"clientReference"`
	InvoiceDate     string `json:"invoiceDate"`
}

var (
	ErrInvalidInvoiceDate = errors.New("invalid_invoice_date")
	ErrUsageUnavailable   = errors.New("usage_unavailable")
)
