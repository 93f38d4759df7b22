// Package domain contains configuration models for billable fees.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Category buckets a fee on the invoice.
type Category string

const (
	CategoryCore        Category = "CORE"
	CategoryAddOn       Category = "ADD_ON"
	CategoryPassthrough Category = "PASSTHROUGH"
	// CategoryUnknown is the fallback for values outside the closed set.
	CategoryUnknown Category = "UNKNOWN"
)

// KnownCategories lists the categories accepted by the catalog.
var KnownCategories = []Category{CategoryCore, CategoryAddOn, CategoryPassthrough}

// Normalize maps arbitrary input onto the closed category set.
func (c Category) Normalize() Category {
	switch c {
	case CategoryCore, CategoryAddOn, CategoryPassthrough:
		return c
	default:
		return CategoryUnknown
	}
}

// Structure determines the evaluation algorithm for a fee.
type Structure string

const (
	StructureTiered     Structure = "TIERED"
	StructureFlat       Structure = "FLAT"
	StructurePercentage Structure = "PERCENTAGE"
)

// Frequency is the billing cadence a fee attaches to.
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// Fee is a configured billable rule for a client/product. Field names on the
// wire follow the dashboard contract, hence camelCase JSON tags.
type Fee struct {
	ID                        snowflake.ID      `json:"id" gorm:"primaryKey"`
	Enabled                   bool              `json:"enabled" gorm:"not null;default:true"`
	ClientID                  snowflake.ID      `json:"clientId" gorm:"column:client_id;not null;index"`
	ProductID                 string            `json:"productId" gorm:"column:product_id;type:text;not null"`
	Type                      string            `json:"type" gorm:"type:text;not null"`
	Category                  Category          `json:"category" gorm:"type:text;not null"`
	StartDate                 Date              `json:"startDate" gorm:"type:date;not null"`
	EndDate                   *Date             `json:"endDate,omitempty" gorm:"type:date"`
	Frequency                 Frequency         `json:"frequency" gorm:"type:text;not null"`
	PeriodMonthOffset         *int              `json:"periodMonthOffset,omitempty" gorm:""`
	FeeStructure              Structure         `json:"feeStructure" gorm:"type:text;not null"`
	Currency                  string            `json:"currency" gorm:"type:text;not null"`
	MonthlyMinimumContributor bool              `json:"monthlyMinimumContributor" gorm:"not null;default:false"`
	IsDiscount                bool              `json:"isDiscount" gorm:"not null;default:false"`
	Description               string            `json:"description,omitempty" gorm:"type:text"`
	Amount                    *decimal.Decimal  `json:"amount,omitempty" gorm:"type:numeric"`
	FeeTiers                  []FeeTier         `json:"feeTiers" gorm:"foreignKey:FeeID"`
	SyncedAt                  *time.Time        `json:"-" gorm:""`
	Metadata                  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt                 time.Time         `json:"-" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                 time.Time         `json:"-" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Fee) TableName() string { return "fees" }

// ActiveOn reports whether the fee's validity window covers the given date.
// Both bounds are inclusive.
func (f Fee) ActiveOn(date Date) bool {
	if date.Before(f.StartDate) {
		return false
	}
	if f.EndDate != nil && date.After(*f.EndDate) {
		return false
	}
	return true
}

// FeeTier is one usage-count bracket with its own rate. Bounds are inclusive.
type FeeTier struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	FeeID      snowflake.ID    `json:"feeId" gorm:"column:fee_id;not null;index"`
	LowerBound int64           `json:"lowerBound" gorm:"not null"`
	UpperBound int64           `json:"upperBound" gorm:"not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	CreatedAt  time.Time       `json:"-" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FeeTier) TableName() string { return "fee_tiers" }

// Contains reports whether a usage count falls inside the tier.
func (t FeeTier) Contains(count int64) bool {
	return count >= t.LowerBound && count <= t.UpperBound
}
