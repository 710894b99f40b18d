package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/zone/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, zone *domain.Zone) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO zones (id, name, description, admin_users, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		zone.ID,
		zone.Name,
		zone.Description,
		zone.AdminUsers,
		zone.CreatedAt,
		zone.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Zone, error) {
	var zones []*domain.Zone
	err := conn.WithContext(ctx).
		Model(&domain.Zone{}).
		Where("id = ?", id).
		Limit(1).
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return zones[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB) ([]*domain.Zone, error) {
	var zones []*domain.Zone
	err := conn.WithContext(ctx).
		Model(&domain.Zone{}).
		Order("created_at desc, id desc").
		Limit(db.MaxFetch).
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, zone *domain.Zone) error {
	return conn.WithContext(ctx).
		Model(&domain.Zone{}).
		Where("id = ?", zone.ID).
		Updates(map[string]any{
			"name":        zone.Name,
			"description": zone.Description,
			"updated_at":  zone.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	tx := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Zone{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Model(&domain.Zone{}).Count(&count).Error
	return count, err
}
