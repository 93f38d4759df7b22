package service

import (
	"context"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/billforge/billforge/internal/adhoccharge/repository"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      repository.Repository
	Customers customerdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      repository.Repository
	customers customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("adhoccharge.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		customers: p.Customers,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.AdhocCharge, error) {
	customer, err := s.customers.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, domain.ErrInvalidCategory
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	chargeDate, err := feedomain.ParseDate(req.ChargeDate)
	if err != nil {
		return nil, domain.ErrInvalidChargeDate
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = customer.Currency
	}

	now := time.Now().UTC()
	entity := &domain.AdhocCharge{
		ID:           s.genID.Generate(),
		CustomerID:   customer.ID,
		Category:     category,
		Name:         name,
		Basis:        strings.TrimSpace(req.Basis),
		FeeStructure: strings.TrimSpace(req.FeeStructure),
		Amount:       req.Amount,
		Currency:     currency,
		ChargeDate:   chargeDate,
		Status:       domain.ChargeStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("adhoc charge created",
		zap.String("charge_id", entity.ID.String()),
		zap.String("client_reference", customer.ClientReference),
		zap.String("amount", entity.Amount.String()),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context, clientReference string) ([]domain.AdhocCharge, error) {
	var customerID snowflake.ID
	if strings.TrimSpace(clientReference) != "" {
		customer, err := s.customers.ResolveReference(ctx, clientReference)
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
	}
	return s.repo.List(ctx, s.db, customerID)
}

func (s *Service) Approve(ctx context.Context, id string) (*domain.AdhocCharge, error) {
	chargeID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, chargeID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}
	if entity.Status != domain.ChargeStatusPending {
		return nil, domain.ErrAlreadyDecided
	}

	entity.Status = domain.ChargeStatusApproved
	entity.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("adhoc charge approved", zap.String("charge_id", entity.ID.String()))
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	chargeID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, chargeID)
	if err != nil {
		return err
	}
	if entity == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, chargeID)
}

func (s *Service) ListApproved(ctx context.Context, clientReference string, periodStart, periodEnd time.Time) ([]domain.AdhocCharge, error) {
	customer, err := s.customers.ResolveReference(ctx, clientReference)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, s.db, customer.ID, domain.ChargeStatusApproved, periodStart, periodEnd)
}
