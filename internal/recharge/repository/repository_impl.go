package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, recharge *domain.Recharge) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO recharges (id, connection_id, line_number, gare_id, operator, operator_type, payment_type, start_date, end_date, volume, cost, status, created_by, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recharge.ID,
		recharge.ConnectionID,
		recharge.LineNumber,
		recharge.GareID,
		recharge.Operator,
		recharge.OperatorType,
		recharge.PaymentType,
		recharge.StartDate,
		recharge.EndDate,
		recharge.Volume,
		recharge.Cost,
		recharge.Status,
		recharge.CreatedBy,
		recharge.Description,
		recharge.CreatedAt,
		recharge.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Recharge, error) {
	var recharges []*domain.Recharge
	err := conn.WithContext(ctx).
		Model(&domain.Recharge{}).
		Where("id = ?", id).
		Limit(1).
		Find(&recharges).Error
	if err != nil {
		return nil, err
	}
	if len(recharges) == 0 {
		return nil, nil
	}
	return recharges[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListRechargeFilter) ([]*domain.Recharge, error) {
	var recharges []*domain.Recharge
	if filter.GareIDs != nil && len(filter.GareIDs) == 0 {
		return recharges, nil
	}

	err := applyFilter(conn.WithContext(ctx).Model(&domain.Recharge{}), filter).
		Order("created_at desc, id desc").
		Limit(db.MaxFetch).
		Find(&recharges).Error
	if err != nil {
		return nil, err
	}
	return recharges, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, recharge *domain.Recharge) error {
	return conn.WithContext(ctx).
		Model(&domain.Recharge{}).
		Where("id = ?", recharge.ID).
		Updates(map[string]any{
			"connection_id": recharge.ConnectionID,
			"line_number":   recharge.LineNumber,
			"gare_id":       recharge.GareID,
			"operator":      recharge.Operator,
			"operator_type": recharge.OperatorType,
			"payment_type":  recharge.PaymentType,
			"start_date":    recharge.StartDate,
			"end_date":      recharge.EndDate,
			"volume":        recharge.Volume,
			"cost":          recharge.Cost,
			"description":   recharge.Description,
			"updated_at":    recharge.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	tx := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recharge{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListRechargeFilter) (int64, error) {
	if filter.GareIDs != nil && len(filter.GareIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Recharge{}), filter).Count(&count).Error
	return count, err
}

func (r *repo) SumCost(ctx context.Context, conn *gorm.DB, filter domain.ListRechargeFilter) (float64, error) {
	if filter.GareIDs != nil && len(filter.GareIDs) == 0 {
		return 0, nil
	}
	var total float64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Recharge{}), filter).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repo) MarkExpired(ctx context.Context, conn *gorm.DB, now time.Time) (int64, error) {
	tx := conn.WithContext(ctx).
		Model(&domain.Recharge{}).
		Where("end_date < ? AND status <> ?", now, domain.StatusExpired).
		Updates(map[string]any{
			"status":     domain.StatusExpired,
			"updated_at": now,
		})
	return tx.RowsAffected, tx.Error
}

func (r *repo) MarkExpiringSoon(ctx context.Context, conn *gorm.DB, now, until time.Time) (int64, error) {
	tx := conn.WithContext(ctx).
		Model(&domain.Recharge{}).
		Where("status = ? AND end_date >= ? AND end_date <= ?", domain.StatusActive, now, until).
		Updates(map[string]any{
			"status":     domain.StatusExpiringSoon,
			"updated_at": now,
		})
	return tx.RowsAffected, tx.Error
}

func applyFilter(stmt *gorm.DB, filter domain.ListRechargeFilter) *gorm.DB {
	if filter.GareID != 0 {
		stmt = stmt.Where("gare_id = ?", filter.GareID)
	}
	if len(filter.GareIDs) > 0 {
		stmt = stmt.Where("gare_id IN ?", filter.GareIDs)
	}
	if filter.ConnectionID != 0 {
		stmt = stmt.Where("connection_id = ?", filter.ConnectionID)
	}
	if filter.Operator != "" {
		stmt = stmt.Where("operator = ?", filter.Operator)
	}
	if filter.PaymentType != "" {
		stmt = stmt.Where("payment_type = ?", filter.PaymentType)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	return stmt
}
