package service

import (
	"context"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/config"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/dispute/domain"
	"github.com/billforge/billforge/internal/dispute/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      repository.Repository
	Customers customerdomain.Service
	Triage    *config.TriageConfigHolder `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	repo      repository.Repository
	customers customerdomain.Service
	triage    *config.TriageConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("dispute.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		customers: p.Customers,
		triage:    p.Triage,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Dispute, error) {
	customer, err := s.customers.ResolveReference(ctx, req.ClientReference)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	disputeType := strings.TrimSpace(req.Type)
	if disputeType == "" {
		return nil, domain.ErrInvalidType
	}

	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Priority) == "" && s.triage != nil {
		// Unset priority goes through the triage policy before falling
		// back to MEDIUM.
		if classified := s.triage.Get().Classify(req.Amount.InexactFloat64(), req.RiskScore); classified != "" {
			priority = domain.DisputePriority(classified)
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = customer.Currency
	}

	now := time.Now().UTC()
	entity := &domain.Dispute{
		ID:             s.genID.Generate(),
		CustomerID:     customer.ID,
		Amount:         req.Amount,
		Currency:       currency,
		Type:           disputeType,
		Priority:       priority,
		Status:         domain.DisputeStatusOpen,
		Description:    strings.TrimSpace(req.Description),
		Classification: strings.TrimSpace(req.Classification),
		RiskScore:      req.RiskScore,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Insert(ctx, entity); err != nil {
		return nil, err
	}

	s.log.Info("dispute opened",
		zap.String("dispute_id", entity.ID.String()),
		zap.String("client_reference", customer.ClientReference),
		zap.String("priority", string(entity.Priority)),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Dispute, error) {
	var customerID snowflake.ID
	if strings.TrimSpace(req.ClientReference) != "" {
		customer, err := s.customers.ResolveReference(ctx, req.ClientReference)
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
	}

	status := domain.DisputeStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	return s.repo.List(ctx, customerID, status)
}

func (s *Service) Resolve(ctx context.Context, id string, req domain.ResolveRequest) (*domain.Dispute, error) {
	disputeID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	resolution := strings.TrimSpace(req.Resolution)
	if resolution == "" {
		return nil, domain.ErrInvalidResolution
	}

	entity, err := s.repo.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}
	if entity.Status == domain.DisputeStatusResolved {
		return nil, domain.ErrAlreadyResolved
	}

	now := time.Now().UTC()
	entity.Status = domain.DisputeStatusResolved
	entity.Resolution = resolution
	entity.ResolvedAt = &now
	entity.UpdatedAt = now
	if err := s.repo.Update(ctx, disputeID, map[string]any{
		"status":      entity.Status,
		"resolution":  entity.Resolution,
		"resolved_at": entity.ResolvedAt,
		"updated_at":  entity.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.log.Info("dispute resolved", zap.String("dispute_id", entity.ID.String()))
	return entity, nil
}

func parsePriority(raw string) (domain.DisputePriority, error) {
	switch domain.DisputePriority(strings.ToUpper(strings.TrimSpace(raw))) {
	case domain.PriorityLow:
		return domain.PriorityLow, nil
	case domain.PriorityHigh:
		return domain.PriorityHigh, nil
	case domain.PriorityMedium, "":
		return domain.PriorityMedium, nil
	default:
		return "", domain.ErrInvalidPriority
	}
}
