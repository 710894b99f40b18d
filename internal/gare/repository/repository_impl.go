package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/gare/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, gare *domain.Gare) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO gares (id, name, agency_id, description, field_agents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gare.ID,
		gare.Name,
		gare.AgencyID,
		gare.Description,
		gare.FieldAgents,
		gare.CreatedAt,
		gare.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Gare, error) {
	var gares []*domain.Gare
	err := conn.WithContext(ctx).
		Model(&domain.Gare{}).
		Where("id = ?", id).
		Limit(1).
		Find(&gares).Error
	if err != nil {
		return nil, err
	}
	if len(gares) == 0 {
		return nil, nil
	}
	return gares[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListGareFilter) ([]*domain.Gare, error) {
	var gares []*domain.Gare
	stmt := conn.WithContext(ctx).Model(&domain.Gare{})
	if filter.AgencyID != 0 {
		stmt = stmt.Where("agency_id = ?", filter.AgencyID)
	}
	if filter.AgencyIDs != nil {
		if len(filter.AgencyIDs) == 0 {
			return []*domain.Gare{}, nil
		}
		stmt = stmt.Where("agency_id IN ?", filter.AgencyIDs)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(db.MaxFetch).
		Find(&gares).Error
	if err != nil {
		return nil, err
	}
	return gares, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, gare *domain.Gare) error {
	return conn.WithContext(ctx).
		Model(&domain.Gare{}).
		Where("id = ?", gare.ID).
		Updates(map[string]any{
			"name":        gare.Name,
			"agency_id":   gare.AgencyID,
			"description": gare.Description,
			"updated_at":  gare.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	tx := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Gare{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Model(&domain.Gare{}).Count(&count).Error
	return count, err
}
