package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/cache"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/fee/domain"
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
	Repo        domain.Repository
	CustomerSvc customerdomain.Service
	Cache       cache.FeeCatalogCache `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	customerSvc customerdomain.Service
	cache       cache.FeeCatalogCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("fee.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
		cache:       p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Fee, error) {
	customer, err := s.customerSvc.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	entity, err := s.buildFee(customer.ID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateClient(customer.ClientReference)
	}

	s.log.Info("fee created",
		zap.String("fee_id", entity.ID.String()),
		zap.String("client_reference", customer.ClientReference),
		zap.String("structure", string(entity.FeeStructure)),
	)

	return entity, nil
}

func (s *Service) ListActive(ctx context.Context, clientReference string, date domain.Date) ([]domain.Fee, error) {
	if s.cache != nil {
		if fees, ok := s.cache.GetActiveFees(clientReference, date.String()); ok {
			return fees, nil
		}
	}

	customer, err := s.customerSvc.ResolveReference(ctx, clientReference)
	if err != nil {
		return nil, err
	}

	fees, err := s.repo.ListActive(ctx, s.db, customer.ID, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetActiveFees(clientReference, date.String(), fees)
	}

	return fees, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Fee, error) {
	feeID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, feeID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) buildFee(clientID snowflake.ID, req domain.CreateRequest) (*domain.Fee, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, domain.ErrInvalidProduct
	}

	feeType := strings.TrimSpace(req.Type)
	if feeType == "" {
		return nil, domain.ErrInvalidType
	}

	category := domain.Category(strings.ToUpper(strings.TrimSpace(req.Category)))
	if category.Normalize() == domain.CategoryUnknown {
		return nil, domain.ErrInvalidCategory
	}

	startDate, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidStartDate
	}

	var endDate *domain.Date
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		parsed, err := domain.ParseDate(*req.EndDate)
		if err != nil {
			return nil, domain.ErrInvalidEndDate
		}
		if parsed.Before(startDate) {
			return nil, domain.ErrInvalidEndDate
		}
		endDate = &parsed
	}

	frequency := domain.Frequency(strings.ToUpper(strings.TrimSpace(req.Frequency)))
	switch frequency {
	case domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyYearly:
	default:
		return nil, domain.ErrInvalidFrequency
	}

	structure := domain.Structure(strings.ToUpper(strings.TrimSpace(req.FeeStructure)))
	switch structure {
	case domain.StructureTiered, domain.StructureFlat, domain.StructurePercentage:
	default:
		return nil, domain.ErrInvalidStructure
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, domain.ErrInvalidCurrency
	}

	tiers, err := s.buildTiers(structure, req)
	if err != nil {
		return nil, err
	}

	if structure != domain.StructureTiered && len(tiers) == 0 && req.Amount == nil {
		return nil, domain.ErrMissingAmount
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now().UTC()
	entity := &domain.Fee{
		ID:                        s.genID.Generate(),
		Enabled:                   enabled,
		ClientID:                  clientID,
		ProductID:                 productID,
		Type:                      feeType,
		Category:                  category,
		StartDate:                 startDate,
		EndDate:                   endDate,
		Frequency:                 frequency,
		PeriodMonthOffset:         req.PeriodMonthOffset,
		FeeStructure:              structure,
		Currency:                  currency,
		MonthlyMinimumContributor: req.MonthlyMinimumContributor,
		IsDiscount:                req.IsDiscount,
		Description:               strings.TrimSpace(req.Description),
		Amount:                    req.Amount,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	for _, tier := range tiers {
		entity.FeeTiers = append(entity.FeeTiers, domain.FeeTier{
			ID:         s.genID.Generate(),
			FeeID:      entity.ID,
			LowerBound: tier.LowerBound,
			UpperBound: tier.UpperBound,
			Amount:     tier.Amount,
			CreatedAt:  now,
		})
	}

	return entity, nil
}

func (s *Service) buildTiers(structure domain.Structure, req domain.CreateRequest) ([]domain.CreateTier, error) {
	tiers := append([]domain.CreateTier(nil), req.FeeTiers...)

	if structure == domain.StructureTiered && len(tiers) == 0 {
		return nil, domain.ErrMissingTiers
	}
	if len(tiers) == 0 {
		return nil, nil
	}

	sort.Slice(tiers, func(i, j int) bool { return tiers[i].LowerBound < tiers[j].LowerBound })

	for i, tier := range tiers {
		if tier.LowerBound < 0 || tier.UpperBound < tier.LowerBound {
			return nil, domain.ErrInvalidTierBounds
		}
		if tier.Amount.IsNegative() {
			return nil, domain.ErrInvalidTierAmount
		}
		if i > 0 && tier.LowerBound <= tiers[i-1].UpperBound {
			return nil, domain.ErrOverlappingTiers
		}
	}

	return tiers, nil
}
