package repository

import (
	"context"
	"errors"
	"time"

	"github.com/billforge/billforge/internal/fee/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func New() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, fee *domain.Fee) error {
	// Tiers ride along via the association so fee + tiers commit atomically.
	return db.WithContext(ctx).Create(fee).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Fee, error) {
	var fee domain.Fee
	err := db.WithContext(ctx).
		Preload("FeeTiers", func(tx *gorm.DB) *gorm.DB { return tx.Order("lower_bound") }).
		Where("id = ?", id).
		First(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, clientID snowflake.ID, date domain.Date) ([]domain.Fee, error) {
	var fees []domain.Fee
	err := db.WithContext(ctx).
		Preload("FeeTiers", func(tx *gorm.DB) *gorm.DB { return tx.Order("lower_bound") }).
		Where("client_id = ? AND enabled = ? AND start_date <= ?", clientID, true, date.Time).
		Where("end_date IS NULL OR end_date >= ?", date.Time).
		Order("id").
		Find(&fees).Error
	return fees, err
}

func (r *repo) ListUnsynced(ctx context.Context, db *gorm.DB, limit int) ([]domain.Fee, error) {
	var fees []domain.Fee
	stmt := db.WithContext(ctx).
		Preload("FeeTiers", func(tx *gorm.DB) *gorm.DB { return tx.Order("lower_bound") }).
		Where("synced_at IS NULL OR synced_at < updated_at").
		Order("id")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	err := stmt.Find(&fees).Error
	return fees, err
}

func (r *repo) MarkSynced(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	// UpdateColumn keeps updated_at untouched so the sync watermark stays valid.
	return db.WithContext(ctx).
		Model(&domain.Fee{}).
		Where("id IN ?", ids).
		UpdateColumn("synced_at", at).Error
}
