package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, connection *Connection) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Connection, error)
	// FindByLineNumber ignores excludeID when it is zero.
	FindByLineNumber(ctx context.Context, db *gorm.DB, lineNumber string, excludeID snowflake.ID) (*Connection, error)
	List(ctx context.Context, db *gorm.DB, filter ListConnectionFilter) ([]*Connection, error)
	Update(ctx context.Context, db *gorm.DB, connection *Connection) error
	UpdateRechargeWindow(ctx context.Context, db *gorm.DB, id snowflake.ID, start, end time.Time) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	Count(ctx context.Context, db *gorm.DB, filter ListConnectionFilter) (int64, error)
}
