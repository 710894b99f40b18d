package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, recharge *Recharge) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Recharge, error)
	List(ctx context.Context, db *gorm.DB, filter ListRechargeFilter) ([]*Recharge, error)
	Update(ctx context.Context, db *gorm.DB, recharge *Recharge) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	Count(ctx context.Context, db *gorm.DB, filter ListRechargeFilter) (int64, error)
	SumCost(ctx context.Context, db *gorm.DB, filter ListRechargeFilter) (float64, error)
	// MarkExpired flags every recharge that ended before now.
	MarkExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
	// MarkExpiringSoon flags active recharges ending within [now, until].
	MarkExpiringSoon(ctx context.Context, db *gorm.DB, now, until time.Time) (int64, error)
}
