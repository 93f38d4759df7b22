package repository

import (
	"context"
	"errors"
	"time"

	"github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *domain.AdhocCharge) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.AdhocCharge, error)
	List(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.AdhocCharge, error)
	ListByStatus(ctx context.Context, db *gorm.DB, customerID snowflake.ID, status domain.ChargeStatus, from, to time.Time) ([]domain.AdhocCharge, error)
	Update(ctx context.Context, db *gorm.DB, charge *domain.AdhocCharge) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type repo struct{}

func New() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.AdhocCharge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.AdhocCharge, error) {
	var charge domain.AdhocCharge
	err := db.WithContext(ctx).Where("id = ?", id).First(&charge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &charge, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.AdhocCharge, error) {
	stmt := db.WithContext(ctx)
	if customerID != 0 {
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	var charges []domain.AdhocCharge
	err := stmt.Order("id").Find(&charges).Error
	return charges, err
}

func (r *repo) ListByStatus(ctx context.Context, db *gorm.DB, customerID snowflake.ID, status domain.ChargeStatus, from, to time.Time) ([]domain.AdhocCharge, error) {
	var charges []domain.AdhocCharge
	err := db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND charge_date >= ? AND charge_date < ?", customerID, status, from, to).
		Order("id").
		Find(&charges).Error
	return charges, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, charge *domain.AdhocCharge) error {
	return db.WithContext(ctx).Save(charge).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AdhocCharge{}).Error
}
