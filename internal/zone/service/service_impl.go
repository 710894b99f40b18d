package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/zone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("zone.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateZoneRequest) (domain.Zone, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Zone{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	zone := domain.Zone{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: trimOptional(req.Description),
		AdminUsers:  datatypes.JSONSlice[string]{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &zone); err != nil {
		return domain.Zone{}, err
	}

	return zone, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Zone, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	zones := make([]domain.Zone, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		zones = append(zones, *item)
	}
	return zones, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Zone, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Zone{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Zone{}, err
	}
	if item == nil {
		return domain.Zone{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, rawID string, req domain.UpdateZoneRequest) (domain.Zone, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Zone{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Zone{}, domain.ErrInvalidName
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Zone{}, err
	}
	if item == nil {
		return domain.Zone{}, domain.ErrNotFound
	}

	item.Name = name
	item.Description = trimOptional(req.Description)
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Zone{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
