package repository

import (
	"context"

	"github.com/billforge/billforge/internal/dispute/domain"
	"github.com/billforge/billforge/pkg/db/option"
	pkgrepo "github.com/billforge/billforge/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, dispute *domain.Dispute) error
	FindByID(ctx context.Context, id snowflake.ID) (*domain.Dispute, error)
	List(ctx context.Context, customerID snowflake.ID, status domain.DisputeStatus) ([]domain.Dispute, error)
	Update(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

type repo struct {
	store pkgrepo.Repository[domain.Dispute]
}

func New(db *gorm.DB) Repository {
	return &repo{store: pkgrepo.ProvideStore[domain.Dispute](db)}
}

func (r *repo) Insert(ctx context.Context, dispute *domain.Dispute) error {
	return r.store.Create(ctx, dispute)
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Dispute, error) {
	return r.store.FindOne(ctx, &domain.Dispute{ID: id})
}

func (r *repo) List(ctx context.Context, customerID snowflake.ID, status domain.DisputeStatus) ([]domain.Dispute, error) {
	// Zero-valued filter fields are ignored by the store.
	found, err := r.store.Find(ctx,
		&domain.Dispute{CustomerID: customerID, Status: status},
		option.WithOrder("id"),
	)
	if err != nil {
		return nil, err
	}

	disputes := make([]domain.Dispute, 0, len(found))
	for _, dispute := range found {
		disputes = append(disputes, *dispute)
	}
	return disputes, nil
}

func (r *repo) Update(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.store.Update(ctx, id.String(), fields)
}
