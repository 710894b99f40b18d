package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	"github.com/smallbiznis/gareline/internal/clock"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	obscontext "github.com/smallbiznis/gareline/internal/observability/context"
	"github.com/smallbiznis/gareline/internal/observability/metrics"
	"github.com/smallbiznis/gareline/internal/recharge/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Metrics        *metrics.Metrics `optional:"true"`
	Repo           domain.Repository
	ConnectionRepo connectiondomain.Repository
	AlertRepo      alertdomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	metrics        *metrics.Metrics
	repo           domain.Repository
	connectionRepo connectiondomain.Repository
	alertRepo      alertdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("recharge.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		metrics:        p.Metrics,
		repo:           p.Repo,
		connectionRepo: p.ConnectionRepo,
		alertRepo:      p.AlertRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRechargeRequest) (domain.Recharge, error) {
	connection, err := s.validate(ctx, req)
	if err != nil {
		return domain.Recharge{}, err
	}

	createdBy, _ := obscontext.ActorFromContext(ctx)
	now := s.clock.Now()
	recharge := domain.Recharge{
		ID:           s.genID.Generate(),
		ConnectionID: connection.ID,
		LineNumber:   connection.LineNumber,
		GareID:       connection.GareID,
		Operator:     connection.Operator,
		OperatorType: connection.OperatorType,
		PaymentType:  domain.PaymentType(strings.TrimSpace(req.PaymentType)),
		StartDate:    req.StartDate.UTC(),
		EndDate:      req.EndDate.UTC(),
		Volume:       trimOptional(req.Volume),
		Cost:         req.Cost,
		Status:       domain.StatusActive,
		CreatedBy:    createdBy,
		Description:  trimOptional(req.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &recharge); err != nil {
		return domain.Recharge{}, err
	}
	s.metrics.RecordRechargeCreated(ctx, string(recharge.Operator), string(recharge.PaymentType))

	// The recharge stays committed even if the follow-up writes fail.
	if err := s.connectionRepo.UpdateRechargeWindow(ctx, s.db, connection.ID, recharge.StartDate, recharge.EndDate); err != nil {
		s.log.Error("failed to update connection recharge window",
			zap.String("recharge_id", recharge.ID.String()),
			zap.String("connection_id", connection.ID.String()),
			zap.Error(err),
		)
	}
	s.generateAlert(ctx, recharge)

	return recharge, nil
}

func (s *Service) generateAlert(ctx context.Context, recharge domain.Recharge) {
	alert := alertdomain.NewExpiryAlert(
		s.genID.Generate(),
		recharge.ID,
		recharge.LineNumber,
		string(recharge.Operator),
		recharge.EndDate,
		s.clock.Now(),
	)
	if err := s.alertRepo.Insert(ctx, s.db, &alert); err != nil {
		s.metrics.RecordAlertGenerated(ctx, "failure")
		s.log.Error("failed to generate expiry alert",
			zap.String("recharge_id", recharge.ID.String()),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordAlertGenerated(ctx, "success")
}

func (s *Service) List(ctx context.Context, req domain.ListRechargeRequest) ([]domain.Recharge, error) {
	filter := domain.ListRechargeFilter{}
	if raw := strings.TrimSpace(req.GareID); raw != "" {
		gareID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidGareID
		}
		filter.GareID = gareID
	}
	if raw := strings.TrimSpace(req.ConnectionID); raw != "" {
		connectionID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidConnectionID
		}
		filter.ConnectionID = connectionID
	}
	if raw := strings.TrimSpace(req.Operator); raw != "" {
		operator := connectiondomain.Operator(raw)
		if !operator.Valid() {
			return nil, domain.ErrInvalidOperator
		}
		filter.Operator = operator
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Statuses = []domain.Status{status}
	}

	if _, err := s.Reconcile(ctx); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	recharges := make([]domain.Recharge, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		recharges = append(recharges, *item)
	}
	return recharges, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Recharge, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Recharge{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Recharge{}, err
	}
	if item == nil {
		return domain.Recharge{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, rawID string, req domain.UpdateRechargeRequest) (domain.Recharge, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Recharge{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Recharge{}, err
	}
	if item == nil {
		return domain.Recharge{}, domain.ErrNotFound
	}

	connection, err := s.validate(ctx, req)
	if err != nil {
		return domain.Recharge{}, err
	}

	item.ConnectionID = connection.ID
	item.LineNumber = connection.LineNumber
	item.GareID = connection.GareID
	item.Operator = connection.Operator
	item.OperatorType = connection.OperatorType
	item.PaymentType = domain.PaymentType(strings.TrimSpace(req.PaymentType))
	item.StartDate = req.StartDate.UTC()
	item.EndDate = req.EndDate.UTC()
	item.Volume = trimOptional(req.Volume)
	item.Cost = req.Cost
	item.Description = trimOptional(req.Description)
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Recharge{}, err
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

// Reconcile moves recharges forward through active, expiring_soon and expired
// based on the current time. Expired runs first so a row is never flagged twice.
func (s *Service) Reconcile(ctx context.Context) (domain.ReconcileResult, error) {
	now := s.clock.Now()

	expired, err := s.repo.MarkExpired(ctx, s.db, now)
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	expiringSoon, err := s.repo.MarkExpiringSoon(ctx, s.db, now, now.Add(domain.ExpiryWarningWindow))
	if err != nil {
		return domain.ReconcileResult{Expired: expired}, err
	}

	s.metrics.RecordStatusTransitions(ctx, string(domain.StatusExpired), expired)
	s.metrics.RecordStatusTransitions(ctx, string(domain.StatusExpiringSoon), expiringSoon)
	if expired > 0 || expiringSoon > 0 {
		s.log.Debug("recharge statuses reconciled",
			zap.Int64("expired", expired),
			zap.Int64("expiring_soon", expiringSoon),
		)
	}
	return domain.ReconcileResult{Expired: expired, ExpiringSoon: expiringSoon}, nil
}

func (s *Service) validate(ctx context.Context, req domain.CreateRechargeRequest) (*connectiondomain.Connection, error) {
	paymentType := domain.PaymentType(strings.TrimSpace(req.PaymentType))
	if !paymentType.Valid() {
		return nil, domain.ErrInvalidPaymentType
	}
	if req.StartDate.IsZero() {
		return nil, domain.ErrInvalidStartDate
	}
	if req.EndDate.IsZero() {
		return nil, domain.ErrInvalidEndDate
	}
	if req.Cost < 0 {
		return nil, domain.ErrInvalidCost
	}

	connectionID, err := snowflake.ParseString(strings.TrimSpace(req.ConnectionID))
	if err != nil || connectionID == 0 {
		return nil, domain.ErrInvalidConnectionID
	}
	connection, err := s.connectionRepo.FindByID(ctx, s.db, connectionID)
	if err != nil {
		return nil, err
	}
	if connection == nil {
		return nil, connectiondomain.ErrNotFound
	}
	return connection, nil
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
