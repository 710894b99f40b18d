package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alert *Alert) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Alert, error)
	// ListOpen returns alerts that were not dismissed, oldest alert_date first.
	ListOpen(ctx context.Context, db *gorm.DB) ([]*Alert, error)
	ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*Alert, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status Status) (int64, error)
}
