package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/alert/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, alert *domain.Alert) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO alerts (id, recharge_id, alert_date, days_before_expiry, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		alert.ID,
		alert.RechargeID,
		alert.AlertDate,
		alert.DaysBeforeExpiry,
		alert.Message,
		alert.Status,
		alert.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Alert, error) {
	var alerts []*domain.Alert
	err := conn.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ?", id).
		Limit(1).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, nil
	}
	return alerts[0], nil
}

func (r *repo) ListOpen(ctx context.Context, conn *gorm.DB) ([]*domain.Alert, error) {
	var alerts []*domain.Alert
	err := conn.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("status <> ?", domain.StatusDismissed).
		Order("alert_date asc, id asc").
		Limit(db.MaxFetch).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repo) ListDue(ctx context.Context, conn *gorm.DB, now time.Time, limit int) ([]*domain.Alert, error) {
	if limit <= 0 || limit > db.MaxFetch {
		limit = db.MaxFetch
	}
	var alerts []*domain.Alert
	err := conn.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("status = ? AND alert_date <= ?", domain.StatusPending, now).
		Order("alert_date asc, id asc").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, id snowflake.ID, status domain.Status) (int64, error) {
	tx := conn.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ?", id).
		Update("status", status)
	return tx.RowsAffected, tx.Error
}

func (r *repo) CountByStatus(ctx context.Context, conn *gorm.DB, status domain.Status) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
