package service

import (
	"context"
	"strings"
	"time"

	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/usage/domain"
	"github.com/billforge/billforge/internal/usage/repository"
	pkgdb "github.com/billforge/billforge/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        repository.Repository
	CustomerSvc customerdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository
	customerSvc customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("usage.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.CreateIngestRequest) (*domain.UsageRecord, error) {
	customer, err := s.customerSvc.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	meterCode := strings.TrimSpace(req.MeterCode)
	if meterCode == "" {
		return nil, domain.ErrInvalidMeterCode
	}
	if req.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if req.RecordedAt.IsZero() {
		return nil, domain.ErrInvalidRecordedAt
	}

	record := &domain.UsageRecord{
		ID:             s.genID.Generate(),
		CustomerID:     customer.ID,
		MeterCode:      meterCode,
		Quantity:       req.Quantity,
		Amount:         req.Amount,
		RecordedAt:     req.RecordedAt.UTC(),
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateRecord
		}
		return nil, err
	}

	return record, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUsageRequest) ([]domain.UsageRecord, error) {
	customer, err := s.customerSvc.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	return s.repo.List(ctx, s.db, customer.ID, strings.TrimSpace(req.MeterCode), req.From, req.To)
}
