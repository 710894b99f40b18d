package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, agency *Agency) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Agency, error)
	List(ctx context.Context, db *gorm.DB, filter ListAgencyFilter) ([]*Agency, error)
	Update(ctx context.Context, db *gorm.DB, agency *Agency) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
