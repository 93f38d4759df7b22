// Package domain contains persistence models for one-off charges raised
// outside the fee catalog.
package domain

import (
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ChargeStatus represents the approval lifecycle of an ad-hoc charge.
type ChargeStatus string

const (
	ChargeStatusPending  ChargeStatus = "PENDING"
	ChargeStatusApproved ChargeStatus = "APPROVED"
	ChargeStatusRejected ChargeStatus = "REJECTED"
)

// AdhocCharge is a one-off billing item (professional services, training,
// emergency support) raised against a client for a specific date. Approved
// charges ride along on the invoice for their period.
type AdhocCharge struct {
	ID           snowflake.ID      `json:"id" gorm:"primaryKey"`
	CustomerID   snowflake.ID      `json:"customerId" gorm:"not null;index"`
	Category     string            `json:"category" gorm:"type:text;not null"`
	Name         string            `json:"name" gorm:"type:text;not null"`
	Basis        string            `json:"basis" gorm:"type:text;not null"`
	FeeStructure string            `json:"feeStructure" gorm:"type:text;not null"`
	Amount       decimal.Decimal   `json:"amount" gorm:"type:numeric;not null"`
	Currency     string            `json:"currency" gorm:"type:text;not null;default:'USD'"`
	ChargeDate   feedomain.Date    `json:"chargeDate" gorm:"type:date;not null;index"`
	Status       ChargeStatus      `json:"status" gorm:"type:text;not null;default:'PENDING'"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time         `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time         `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AdhocCharge) TableName() string { return "adhoc_charges" }
