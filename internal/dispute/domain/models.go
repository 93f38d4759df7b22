// Package domain contains persistence models for billing disputes raised
// against invoiced charges.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

type DisputePriority string

const (
	PriorityLow    DisputePriority = "LOW"
	PriorityMedium DisputePriority = "MEDIUM"
	PriorityHigh   DisputePriority = "HIGH"
)

// Dispute records a client's challenge to a billed amount. Classification and
// RiskScore are advisory fields populated by an upstream triage step; the
// resolution itself stays a human decision.
type Dispute struct {
	ID             snowflake.ID      `json:"id" gorm:"primaryKey"`
	CustomerID     snowflake.ID      `json:"customerId" gorm:"not null;index"`
	Amount         decimal.Decimal   `json:"amount" gorm:"type:numeric;not null"`
	Currency       string            `json:"currency" gorm:"type:text;not null;default:'USD'"`
	Type           string            `json:"type" gorm:"type:text;not null"`
	Priority       DisputePriority   `json:"priority" gorm:"type:text;not null;default:'MEDIUM'"`
	Status         DisputeStatus     `json:"status" gorm:"type:text;not null;default:'OPEN';index"`
	Description    string            `json:"description" gorm:"type:text"`
	Classification string            `json:"classification,omitempty" gorm:"type:text"`
	RiskScore      *float64          `json:"riskScore,omitempty" gorm:"type:numeric"`
	Resolution     string            `json:"resolution,omitempty" gorm:"type:text"`
	ResolvedAt     *time.Time        `json:"resolvedAt,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time         `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Dispute) TableName() string { return "disputes" }
