package repository

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/usage/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error
	List(ctx context.Context, db *gorm.DB, customerID snowflake.ID, meterCode string, from, to time.Time) ([]domain.UsageRecord, error)
	// Aggregate sums quantity and amount for a meter over [from, to).
	Aggregate(ctx context.Context, db *gorm.DB, customerID snowflake.ID, meterCode string, from, to time.Time) (Aggregation, error)
}

// Aggregation is the rolled-up usage for one meter over one period.
type Aggregation struct {
	Records  int64
	Quantity int64
	Amount   decimal.Decimal
}

type repo struct{}

func New() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, customerID snowflake.ID, meterCode string, from, to time.Time) ([]domain.UsageRecord, error) {
	stmt := db.WithContext(ctx).Where("customer_id = ?", customerID)
	if meterCode != "" {
		stmt = stmt.Where("meter_code = ?", meterCode)
	}
	if !from.IsZero() {
		stmt = stmt.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		stmt = stmt.Where("recorded_at < ?", to)
	}

	var records []domain.UsageRecord
	err := stmt.Order("recorded_at").Find(&records).Error
	return records, err
}

func (r *repo) Aggregate(ctx context.Context, db *gorm.DB, customerID snowflake.ID, meterCode string, from, to time.Time) (Aggregation, error) {
	var row struct {
		Records  int64
		Quantity int64
		Amount   decimal.Decimal
	}
	err := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Select("COUNT(*) AS records, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(amount), 0) AS amount").
		Where("customer_id = ? AND meter_code = ? AND recorded_at >= ? AND recorded_at < ?", customerID, meterCode, from, to).
		Scan(&row).Error
	if err != nil {
		return Aggregation{}, err
	}
	return Aggregation{Records: row.Records, Quantity: row.Quantity, Amount: row.Amount}, nil
}
