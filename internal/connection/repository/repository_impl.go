package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/connection/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, connection *domain.Connection) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO connections (id, line_number, gare_id, operator, operator_type, connection_type, status, description, last_recharge_date, expiry_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		connection.ID,
		connection.LineNumber,
		connection.GareID,
		connection.Operator,
		connection.OperatorType,
		connection.ConnectionType,
		connection.Status,
		connection.Description,
		connection.LastRechargeDate,
		connection.ExpiryDate,
		connection.CreatedAt,
		connection.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Connection, error) {
	return r.findOne(conn.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) FindByLineNumber(ctx context.Context, conn *gorm.DB, lineNumber string, excludeID snowflake.ID) (*domain.Connection, error) {
	stmt := conn.WithContext(ctx).Where("line_number = ?", lineNumber)
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}
	return r.findOne(stmt)
}

func (r *repo) findOne(stmt *gorm.DB) (*domain.Connection, error) {
	var connections []*domain.Connection
	if err := stmt.Model(&domain.Connection{}).Limit(1).Find(&connections).Error; err != nil {
		return nil, err
	}
	if len(connections) == 0 {
		return nil, nil
	}
	return connections[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListConnectionFilter) ([]*domain.Connection, error) {
	var connections []*domain.Connection
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Connection{}), filter).
		Order("created_at desc, id desc").
		Limit(db.MaxFetch).
		Find(&connections).Error
	if err != nil {
		return nil, err
	}
	return connections, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, connection *domain.Connection) error {
	return conn.WithContext(ctx).
		Model(&domain.Connection{}).
		Where("id = ?", connection.ID).
		Updates(map[string]any{
			"line_number":     connection.LineNumber,
			"gare_id":         connection.GareID,
			"operator":        connection.Operator,
			"operator_type":   connection.OperatorType,
			"connection_type": connection.ConnectionType,
			"status":          connection.Status,
			"description":     connection.Description,
			"updated_at":      connection.UpdatedAt,
		}).Error
}

func (r *repo) UpdateRechargeWindow(ctx context.Context, conn *gorm.DB, id snowflake.ID, start, end time.Time) error {
	return conn.WithContext(ctx).
		Model(&domain.Connection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_recharge_date": start,
			"expiry_date":        end,
		}).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	tx := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Connection{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListConnectionFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Connection{}), filter).Count(&count).Error
	return count, err
}

func applyFilter(stmt *gorm.DB, filter domain.ListConnectionFilter) *gorm.DB {
	if filter.GareID != 0 {
		stmt = stmt.Where("gare_id = ?", filter.GareID)
	}
	if filter.Operator != "" {
		stmt = stmt.Where("operator = ?", filter.Operator)
	}
	if filter.OperatorType != "" {
		stmt = stmt.Where("operator_type = ?", filter.OperatorType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	return stmt
}
