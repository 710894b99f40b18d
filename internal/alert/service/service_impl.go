package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/alert/domain"
	"github.com/smallbiznis/gareline/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alert.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Alert, error) {
	items, err := s.repo.ListOpen(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) Dismiss(ctx context.Context, rawID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, id, domain.StatusDismissed)
	if err != nil {
		return err
	}
	if updated == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ListDue(ctx context.Context, limit int) ([]domain.Alert, error) {
	items, err := s.repo.ListDue(ctx, s.db, s.clock.Now(), limit)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) MarkSent(ctx context.Context, alert domain.Alert) error {
	updated, err := s.repo.UpdateStatus(ctx, s.db, alert.ID, domain.StatusSent)
	if err != nil {
		return err
	}
	if updated == 0 {
		return domain.ErrNotFound
	}
	s.log.Debug("alert marked sent", zap.String("alert_id", alert.ID.String()))
	return nil
}

func deref(items []*domain.Alert) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		alerts = append(alerts, *item)
	}
	return alerts
}
