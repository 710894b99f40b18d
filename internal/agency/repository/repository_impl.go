package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, agency *domain.Agency) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO agencies (id, name, zone_id, description, admin_users, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agency.ID,
		agency.Name,
		agency.ZoneID,
		agency.Description,
		agency.AdminUsers,
		agency.CreatedAt,
		agency.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Agency, error) {
	var agencies []*domain.Agency
	err := conn.WithContext(ctx).
		Model(&domain.Agency{}).
		Where("id = ?", id).
		Limit(1).
		Find(&agencies).Error
	if err != nil {
		return nil, err
	}
	if len(agencies) == 0 {
		return nil, nil
	}
	return agencies[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListAgencyFilter) ([]*domain.Agency, error) {
	var agencies []*domain.Agency
	stmt := conn.WithContext(ctx).Model(&domain.Agency{})
	if filter.ZoneID != 0 {
		stmt = stmt.Where("zone_id = ?", filter.ZoneID)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(db.MaxFetch).
		Find(&agencies).Error
	if err != nil {
		return nil, err
	}
	return agencies, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, agency *domain.Agency) error {
	return conn.WithContext(ctx).
		Model(&domain.Agency{}).
		Where("id = ?", agency.ID).
		Updates(map[string]any{
			"name":        agency.Name,
			"zone_id":     agency.ZoneID,
			"description": agency.Description,
			"updated_at":  agency.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	tx := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Agency{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Model(&domain.Agency{}).Count(&count).Error
	return count, err
}
