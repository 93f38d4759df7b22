// Package domain contains persistence models for raw usage ingestion and the
// BillingUnits measurement type fee evaluation consumes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// UsageRecord stores a single unit of metered activity for a client. MeterCode
// matches the fee's Type so the resolver can pair records with fee rules.
type UsageRecord struct {
	ID             snowflake.ID      `json:"id" gorm:"primaryKey"`
	CustomerID     snowflake.ID      `json:"customer_id" gorm:"not null;index"`
	MeterCode      string            `json:"meter_code" gorm:"type:text;not null;index"`
	Quantity       int64             `json:"quantity" gorm:"not null;default:0"`
	Amount         decimal.Decimal   `json:"amount" gorm:"type:numeric;not null;default:0"`
	RecordedAt     time.Time         `json:"recorded_at" gorm:"not null;index"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty" gorm:"type:text;uniqueIndex"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }
