package service

import (
	"context"
	"errors"
	"testing"
	"time"

	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/fee/repository"
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

func setupService(t *testing.T) (domain.Service, *customerdomain.Customer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Fee{}, &domain.FeeTier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customer := &customerdomain.Customer{
		ID:              node.Generate(),
		ClientReference: "acme-corp",
		Name:            "Acme Corp",
		Currency:        "USD",
	}

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.New(),
		CustomerSvc: &customerStub{customer: customer},
	})
	return svc, customer, db
}

func validCreateRequest() domain.CreateRequest {
	return domain.CreateRequest{
		ClientReference: "acme-corp",
		ProductID:       "payments",
		Type:            "TRANSACTION_PROCESSING",
		Category:        "CORE",
		StartDate:       "2025-01-01",
		Frequency:       "MONTHLY",
		FeeStructure:    "TIERED",
		Currency:        "USD",
		FeeTiers: []domain.CreateTier{
			{LowerBound: 0, UpperBound: 99, Amount: decimal.RequireFromString("2.50")},
			{LowerBound: 100, UpperBound: 999, Amount: decimal.RequireFromString("2.00")},
		},
	}
}

func TestCreateFee(t *testing.T) {
	svc, customer, _ := setupService(t)

	fee, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, customer.ID, fee.ClientID)
	assert.True(t, fee.Enabled)
	assert.Equal(t, domain.CategoryCore, fee.Category)
	assert.Equal(t, domain.StructureTiered, fee.FeeStructure)
	require.Len(t, fee.FeeTiers, 2)
	assert.Equal(t, int64(0), fee.FeeTiers[0].LowerBound)
}

func TestCreateFeeUnknownClient(t *testing.T) {
	svc, _, _ := setupService(t)

	req := validCreateRequest()
	req.ClientReference = "nobody"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidClient)
}

func TestCreateFeeValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	endBeforeStart := "2024-12-31"
	amount := decimal.RequireFromString("10.00")

	tests := []struct {
		name    string
		mutate  func(*domain.CreateRequest)
		wantErr error
	}{
		{
			name:    "missing product",
			mutate:  func(r *domain.CreateRequest) { r.ProductID = " " },
			wantErr: domain.ErrInvalidProduct,
		},
		{
			name:    "missing type",
			mutate:  func(r *domain.CreateRequest) { r.Type = "" },
			wantErr: domain.ErrInvalidType,
		},
		{
			name:    "category outside closed set",
			mutate:  func(r *domain.CreateRequest) { r.Category = "LEGACY" },
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name:    "malformed start date",
			mutate:  func(r *domain.CreateRequest) { r.StartDate = "01/06/2025" },
			wantErr: domain.ErrInvalidStartDate,
		},
		{
			name:    "end date before start date",
			mutate:  func(r *domain.CreateRequest) { r.EndDate = &endBeforeStart },
			wantErr: domain.ErrInvalidEndDate,
		},
		{
			name:    "unknown frequency",
			mutate:  func(r *domain.CreateRequest) { r.Frequency = "WEEKLY" },
			wantErr: domain.ErrInvalidFrequency,
		},
		{
			name:    "unknown structure",
			mutate:  func(r *domain.CreateRequest) { r.FeeStructure = "USAGE" },
			wantErr: domain.ErrInvalidStructure,
		},
		{
			name:    "missing currency",
			mutate:  func(r *domain.CreateRequest) { r.Currency = "" },
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:    "tiered without tiers",
			mutate:  func(r *domain.CreateRequest) { r.FeeTiers = nil },
			wantErr: domain.ErrMissingTiers,
		},
		{
			name: "negative tier bound",
			mutate: func(r *domain.CreateRequest) {
				r.FeeTiers[0].LowerBound = -1
			},
			wantErr: domain.ErrInvalidTierBounds,
		},
		{
			name: "upper below lower",
			mutate: func(r *domain.CreateRequest) {
				r.FeeTiers[1].UpperBound = 50
			},
			wantErr: domain.ErrInvalidTierBounds,
		},
		{
			name: "overlapping tiers",
			mutate: func(r *domain.CreateRequest) {
				r.FeeTiers[1].LowerBound = 99
			},
			wantErr: domain.ErrOverlappingTiers,
		},
		{
			name: "negative tier amount",
			mutate: func(r *domain.CreateRequest) {
				r.FeeTiers[0].Amount = decimal.RequireFromString("-1")
			},
			wantErr: domain.ErrInvalidTierAmount,
		},
		{
			name: "flat without amount or tiers",
			mutate: func(r *domain.CreateRequest) {
				r.FeeStructure = "FLAT"
				r.FeeTiers = nil
				r.Amount = nil
			},
			wantErr: domain.ErrMissingAmount,
		},
		{
			name: "flat with amount passes",
			mutate: func(r *domain.CreateRequest) {
				r.FeeStructure = "FLAT"
				r.FeeTiers = nil
				r.Amount = &amount
			},
			wantErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.Create(ctx, req)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestListActiveRespectsWindowAndOrder(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.Type = "ASSET_MANAGEMENT"
	secondFee, err := svc.Create(ctx, second)
	require.NoError(t, err)

	expired := validCreateRequest()
	expired.Type = "RETIRED_FEE"
	end := "2025-03-31"
	expired.EndDate = &end
	_, err = svc.Create(ctx, expired)
	require.NoError(t, err)

	fees, err := svc.ListActive(ctx, "acme-corp", domain.NewDate(2025, time.June, 1))
	require.NoError(t, err)

	require.Len(t, fees, 2)
	assert.Equal(t, first.ID, fees[0].ID)
	assert.Equal(t, secondFee.ID, fees[1].ID)
	require.Len(t, fees[0].FeeTiers, 2)
}

func TestListActiveIncludesWindowEdges(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	req := validCreateRequest()
	end := "2025-06-30"
	req.EndDate = &end
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	for _, date := range []domain.Date{
		domain.NewDate(2025, time.January, 1),
		domain.NewDate(2025, time.June, 30),
	} {
		fees, err := svc.ListActive(ctx, "acme-corp", date)
		require.NoError(t, err)
		assert.Len(t, fees, 1, "date=%s", date)
	}

	fees, err := svc.ListActive(ctx, "acme-corp", domain.NewDate(2025, time.July, 1))
	require.NoError(t, err)
	assert.Empty(t, fees)
}

func TestGetByID(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	fee, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, fee.ID.String())
	require.NoError(t, err)
	assert.Equal(t, fee.ID, found.ID)

	_, err = svc.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
