package service

import (
	"context"
	"testing"

	"github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/customer/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.New(),
	})
}

func TestCreateCustomer(t *testing.T) {
	svc := setupService(t)

	customer, err := svc.Create(context.Background(), domain.CreateRequest{
		ClientReference: " acme-corp ",
		Name:            "Acme Corp",
		Currency:        "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-corp", customer.ClientReference)
	assert.Equal(t, "USD", customer.Currency)
	assert.NotZero(t, customer.ID)
}

func TestCreateCustomerDefaultsCurrency(t *testing.T) {
	svc := setupService(t)

	customer, err := svc.Create(context.Background(), domain.CreateRequest{
		ClientReference: "acme-corp",
		Name:            "Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", customer.Currency)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme Corp"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = svc.Create(ctx, domain.CreateRequest{ClientReference: "acme-corp"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateCustomerDuplicateReference(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	req := domain.CreateRequest{ClientReference: "acme-corp", Name: "Acme Corp"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrReferenceExists)
}

func TestResolveReference(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{ClientReference: "acme-corp", Name: "Acme Corp"})
	require.NoError(t, err)

	found, err := svc.ResolveReference(ctx, "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.ResolveReference(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownClient)

	_, err = svc.ResolveReference(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestGetByID(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{ClientReference: "acme-corp", Name: "Acme Corp"})
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ClientReference, found.ClientReference)

	_, err = svc.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
