package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/internal/clock"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	ZoneRepo zonedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	zoneRepo zonedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("agency.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		zoneRepo: p.ZoneRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAgencyRequest) (domain.Agency, error) {
	name, zoneID, err := s.validate(ctx, req)
	if err != nil {
		return domain.Agency{}, err
	}

	now := s.clock.Now()
	agency := domain.Agency{
		ID:          s.genID.Generate(),
		Name:        name,
		ZoneID:      zoneID,
		Description: trimOptional(req.Description),
		AdminUsers:  datatypes.JSONSlice[string]{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &agency); err != nil {
		return domain.Agency{}, err
	}
	return agency, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAgencyRequest) ([]domain.Agency, error) {
	filter := domain.ListAgencyFilter{}
	if raw := strings.TrimSpace(req.ZoneID); raw != "" {
		zoneID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidZoneID
		}
		filter.ZoneID = zoneID
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	agencies := make([]domain.Agency, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		agencies = append(agencies, *item)
	}
	return agencies, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Agency, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Agency{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Agency{}, err
	}
	if item == nil {
		return domain.Agency{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, rawID string, req domain.UpdateAgencyRequest) (domain.Agency, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Agency{}, err
	}

	name, zoneID, err := s.validate(ctx, req)
	if err != nil {
		return domain.Agency{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Agency{}, err
	}
	if item == nil {
		return domain.Agency{}, domain.ErrNotFound
	}

	item.Name = name
	item.ZoneID = zoneID
	item.Description = trimOptional(req.Description)
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Agency{}, err
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

// validate checks the payload and that the referenced zone exists.
func (s *Service) validate(ctx context.Context, req domain.CreateAgencyRequest) (string, snowflake.ID, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", 0, domain.ErrInvalidName
	}

	zoneID, err := snowflake.ParseString(strings.TrimSpace(req.ZoneID))
	if err != nil || zoneID == 0 {
		return "", 0, domain.ErrInvalidZoneID
	}

	zone, err := s.zoneRepo.FindByID(ctx, s.db, zoneID)
	if err != nil {
		return "", 0, err
	}
	if zone == nil {
		return "", 0, zonedomain.ErrNotFound
	}
	return name, zoneID, nil
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
