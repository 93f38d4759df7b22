package service

import (
	"context"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/usage/domain"
	"github.com/billforge/billforge/internal/usage/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ResolverParams struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo repository.Repository
}

// DBResolver resolves BillingUnits from ingested usage records. The fee's
// Type doubles as the meter code, matching how the dashboard labels billing
// lines. Reads are a point-in-time snapshot; consistency during a concurrent
// ingest is the metering side's concern.
type DBResolver struct {
	db   *gorm.DB
	log  *zap.Logger
	repo repository.Repository
}

func NewResolver(p ResolverParams) domain.Resolver {
	return &DBResolver{
		db:   p.DB,
		log:  p.Log.Named("usage.resolver"),
		repo: p.Repo,
	}
}

func (r *DBResolver) Resolve(ctx context.Context, fee feedomain.Fee, periodStart, periodEnd time.Time) (domain.BillingUnits, error) {
	agg, err := r.repo.Aggregate(ctx, r.db, fee.ClientID, fee.Type, periodStart, periodEnd)
	if err != nil {
		return domain.BillingUnits{}, err
	}

	switch fee.FeeStructure {
	case feedomain.StructureFlat:
		return domain.FeeAppliesUnits(agg.Records > 0), nil
	case feedomain.StructurePercentage:
		return domain.PercentageOfUnits(agg.Amount), nil
	default:
		return domain.CountUnits(agg.Quantity), nil
	}
}
