// Package domain contains persistence models for billed clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Customer represents a billed client resolved by its external reference.
type Customer struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	ClientReference string            `json:"client_reference" gorm:"type:text;not null;uniqueIndex"`
	Name            string            `json:"name" gorm:"type:text;not null"`
	Currency        string            `json:"currency" gorm:"type:text;not null;default:'USD'"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
