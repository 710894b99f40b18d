package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/gare/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	AgencyRepo agencydomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	agencyRepo agencydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("gare.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		agencyRepo: p.AgencyRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGareRequest) (domain.Gare, error) {
	name, agencyID, err := s.validate(ctx, req)
	if err != nil {
		return domain.Gare{}, err
	}

	now := s.clock.Now()
	gare := domain.Gare{
		ID:          s.genID.Generate(),
		Name:        name,
		AgencyID:    agencyID,
		Description: trimOptional(req.Description),
		FieldAgents: datatypes.JSONSlice[string]{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &gare); err != nil {
		return domain.Gare{}, err
	}
	return gare, nil
}

func (s *Service) List(ctx context.Context, req domain.ListGareRequest) ([]domain.Gare, error) {
	filter := domain.ListGareFilter{}
	if raw := strings.TrimSpace(req.AgencyID); raw != "" {
		agencyID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidAgencyID
		}
		filter.AgencyID = agencyID
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	gares := make([]domain.Gare, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		gares = append(gares, *item)
	}
	return gares, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Gare, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Gare{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Gare{}, err
	}
	if item == nil {
		return domain.Gare{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, rawID string, req domain.UpdateGareRequest) (domain.Gare, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Gare{}, err
	}

	name, agencyID, err := s.validate(ctx, req)
	if err != nil {
		return domain.Gare{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Gare{}, err
	}
	if item == nil {
		return domain.Gare{}, domain.ErrNotFound
	}

	item.Name = name
	item.AgencyID = agencyID
	item.Description = trimOptional(req.Description)
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Gare{}, err
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

func (s *Service) validate(ctx context.Context, req domain.CreateGareRequest) (string, snowflake.ID, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", 0, domain.ErrInvalidName
	}

	agencyID, err := snowflake.ParseString(strings.TrimSpace(req.AgencyID))
	if err != nil || agencyID == 0 {
		return "", 0, domain.ErrInvalidAgencyID
	}

	agency, err := s.agencyRepo.FindByID(ctx, s.db, agencyID)
	if err != nil {
		return "", 0, err
	}
	if agency == nil {
		return "", 0, agencydomain.ErrNotFound
	}
	return name, agencyID, nil
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
