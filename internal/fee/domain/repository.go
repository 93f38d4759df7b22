package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, fee *Fee) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Fee, error)
	// ListActive returns enabled fees whose validity window covers date,
	// ordered by id so invoice output stays reproducible.
	ListActive(ctx context.Context, db *gorm.DB, clientID snowflake.ID, date Date) ([]Fee, error)
	// ListUnsynced returns fees changed since their last accounting sync.
	ListUnsynced(ctx context.Context, db *gorm.DB, limit int) ([]Fee, error)
	MarkSynced(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time) error
}
