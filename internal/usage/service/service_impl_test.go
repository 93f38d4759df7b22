package service

import (
	"context"
	"errors"
	"testing"
	"time"

	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/usage/domain"
	"github.com/billforge/billforge/internal/usage/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerStub struct {
	customer *customerdomain.Customer
}

func (s *customerStub) Create(context.Context, customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (s *customerStub) List(context.Context) ([]customerdomain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (s *customerStub) GetByID(context.Context, string) (*customerdomain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (s *customerStub) ResolveReference(_ context.Context, ref string) (*customerdomain.Customer, error) {
	if s.customer == nil || s.customer.ClientReference != ref {
		return nil, customerdomain.ErrUnknownClient
	}
	return s.customer, nil
}

func setup(t *testing.T) (domain.Service, domain.Resolver, *customerdomain.Customer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.UsageRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customer := &customerdomain.Customer{
		ID:              node.Generate(),
		ClientReference: "acme-corp",
		Name:            "Acme Corp",
		Currency:        "USD",
	}

	repo := repository.New()
	log := zap.NewNop()
	svc := New(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Repo:        repo,
		CustomerSvc: &customerStub{customer: customer},
	})
	resolver := NewResolver(ResolverParams{DB: db, Log: log, Repo: repo})

	return svc, resolver, customer
}

func ingestRequest(meterCode string, quantity int64) domain.CreateIngestRequest {
	return domain.CreateIngestRequest{
		ClientReference: "acme-corp",
		MeterCode:       meterCode,
		Quantity:        quantity,
		RecordedAt:      time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestIngest(t *testing.T) {
	svc, _, customer := setup(t)

	record, err := svc.Ingest(context.Background(), ingestRequest("TRANSACTION_PROCESSING", 5))
	require.NoError(t, err)

	assert.Equal(t, customer.ID, record.CustomerID)
	assert.Equal(t, int64(5), record.Quantity)
}

func TestIngestValidation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	unknown := ingestRequest("m", 1)
	unknown.ClientReference = "nobody"
	_, err := svc.Ingest(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrInvalidClient)

	noMeter := ingestRequest("", 1)
	_, err = svc.Ingest(ctx, noMeter)
	assert.ErrorIs(t, err, domain.ErrInvalidMeterCode)

	negative := ingestRequest("m", -1)
	_, err = svc.Ingest(ctx, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	negativeAmount := ingestRequest("m", 1)
	negativeAmount.Amount = decimal.RequireFromString("-5")
	_, err = svc.Ingest(ctx, negativeAmount)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	noTimestamp := ingestRequest("m", 1)
	noTimestamp.RecordedAt = time.Time{}
	_, err = svc.Ingest(ctx, noTimestamp)
	assert.ErrorIs(t, err, domain.ErrInvalidRecordedAt)
}

func TestIngestIdempotencyKeyConflict(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	key := "batch-42"
	req := ingestRequest("TRANSACTION_PROCESSING", 5)
	req.IdempotencyKey = &key

	_, err := svc.Ingest(ctx, req)
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
}

func TestResolverCountUnits(t *testing.T) {
	svc, resolver, customer := setup(t)
	ctx := context.Background()

	for _, qty := range []int64{60, 90} {
		_, err := svc.Ingest(ctx, ingestRequest("TRANSACTION_PROCESSING", qty))
		require.NoError(t, err)
	}
	// Outside the billing period.
	outside := ingestRequest("TRANSACTION_PROCESSING", 500)
	outside.RecordedAt = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Ingest(ctx, outside)
	require.NoError(t, err)

	fee := feedomain.Fee{
		ClientID:     customer.ID,
		Type:         "TRANSACTION_PROCESSING",
		FeeStructure: feedomain.StructureTiered,
	}
	units, err := resolver.Resolve(ctx,
		fee,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	count, ok := units.Count()
	require.True(t, ok)
	assert.Equal(t, int64(150), count)
}

func TestResolverFeeAppliesUnits(t *testing.T) {
	svc, resolver, customer := setup(t)
	ctx := context.Background()

	periodStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	fee := feedomain.Fee{
		ClientID:     customer.ID,
		Type:         "PLATFORM_ACCESS",
		FeeStructure: feedomain.StructureFlat,
	}

	units, err := resolver.Resolve(ctx, fee, periodStart, periodEnd)
	require.NoError(t, err)
	applies, ok := units.FeeApplies()
	require.True(t, ok)
	assert.False(t, applies)

	_, err = svc.Ingest(ctx, ingestRequest("PLATFORM_ACCESS", 1))
	require.NoError(t, err)

	units, err = resolver.Resolve(ctx, fee, periodStart, periodEnd)
	require.NoError(t, err)
	applies, ok = units.FeeApplies()
	require.True(t, ok)
	assert.True(t, applies)
}

func TestResolverPercentageOfUnits(t *testing.T) {
	svc, resolver, customer := setup(t)
	ctx := context.Background()

	req := ingestRequest("ASSET_MANAGEMENT", 1)
	req.Amount = decimal.RequireFromString("600.00")
	_, err := svc.Ingest(ctx, req)
	require.NoError(t, err)

	req = ingestRequest("ASSET_MANAGEMENT", 1)
	req.Amount = decimal.RequireFromString("400.00")
	_, err = svc.Ingest(ctx, req)
	require.NoError(t, err)

	fee := feedomain.Fee{
		ClientID:     customer.ID,
		Type:         "ASSET_MANAGEMENT",
		FeeStructure: feedomain.StructurePercentage,
	}
	units, err := resolver.Resolve(ctx,
		fee,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	base, ok := units.PercentageOf()
	require.True(t, ok)
	assert.True(t, base.Equal(decimal.RequireFromString("1000.00")))
}
