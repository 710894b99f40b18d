package service

import (
	"context"

	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	"github.com/smallbiznis/gareline/internal/dashboard/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	ZoneRepo       zonedomain.Repository
	AgencyRepo     agencydomain.Repository
	GareRepo       garedomain.Repository
	ConnectionRepo connectiondomain.Repository
	RechargeRepo   rechargedomain.Repository
	AlertRepo      alertdomain.Repository
	RechargeSvc    rechargedomain.Service
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	zoneRepo       zonedomain.Repository
	agencyRepo     agencydomain.Repository
	gareRepo       garedomain.Repository
	connectionRepo connectiondomain.Repository
	rechargeRepo   rechargedomain.Repository
	alertRepo      alertdomain.Repository
	rechargeSvc    rechargedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("dashboard.service"),
		zoneRepo:       p.ZoneRepo,
		agencyRepo:     p.AgencyRepo,
		gareRepo:       p.GareRepo,
		connectionRepo: p.ConnectionRepo,
		rechargeRepo:   p.RechargeRepo,
		alertRepo:      p.AlertRepo,
		rechargeSvc:    p.RechargeSvc,
	}
}

// counter accumulates the first error so the fold reads top to bottom.
type counter struct {
	err error
}

func (c *counter) count(fn func() (int64, error)) int64 {
	if c.err != nil {
		return 0
	}
	n, err := fn()
	if err != nil {
		c.err = err
	}
	return n
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	if _, err := s.rechargeSvc.Reconcile(ctx); err != nil {
		return domain.Stats{}, err
	}

	c := &counter{}
	connections := func(filter connectiondomain.ListConnectionFilter) func() (int64, error) {
		return func() (int64, error) { return s.connectionRepo.Count(ctx, s.db, filter) }
	}
	recharges := func(filter rechargedomain.ListRechargeFilter) func() (int64, error) {
		return func() (int64, error) { return s.rechargeRepo.Count(ctx, s.db, filter) }
	}
	activeRecharges := func(filter rechargedomain.ListRechargeFilter) func() (int64, error) {
		filter.Statuses = []rechargedomain.Status{rechargedomain.StatusActive}
		return recharges(filter)
	}

	stats := domain.Stats{
		TotalZones:          c.count(func() (int64, error) { return s.zoneRepo.Count(ctx, s.db) }),
		TotalAgencies:       c.count(func() (int64, error) { return s.agencyRepo.Count(ctx, s.db) }),
		TotalGares:          c.count(func() (int64, error) { return s.gareRepo.Count(ctx, s.db) }),
		TotalConnections:    c.count(connections(connectiondomain.ListConnectionFilter{})),
		TotalRecharges:      c.count(recharges(rechargedomain.ListRechargeFilter{})),
		ActiveConnections:   c.count(connections(connectiondomain.ListConnectionFilter{Status: connectiondomain.StatusActive})),
		InactiveConnections: c.count(connections(connectiondomain.ListConnectionFilter{Status: connectiondomain.StatusInactive})),
		ActiveRecharges:     c.count(activeRecharges(rechargedomain.ListRechargeFilter{})),
		ExpiringRecharges: c.count(recharges(rechargedomain.ListRechargeFilter{
			Statuses: []rechargedomain.Status{rechargedomain.StatusExpiringSoon},
		})),
		ExpiredRecharges: c.count(recharges(rechargedomain.ListRechargeFilter{
			Statuses: []rechargedomain.Status{rechargedomain.StatusExpired},
		})),
		PaymentTypeStats: domain.PaymentTypeStats{
			Prepaid:  c.count(activeRecharges(rechargedomain.ListRechargeFilter{PaymentType: rechargedomain.PaymentTypePrepaid})),
			Postpaid: c.count(activeRecharges(rechargedomain.ListRechargeFilter{PaymentType: rechargedomain.PaymentTypePostpaid})),
		},
		ConnectionTypeStats: domain.ConnectionTypeStats{
			Mobile: c.count(connections(connectiondomain.ListConnectionFilter{
				OperatorType: connectiondomain.OperatorTypeMobile,
				Status:       connectiondomain.StatusActive,
			})),
			Fibre: c.count(connections(connectiondomain.ListConnectionFilter{
				OperatorType: connectiondomain.OperatorTypeFibre,
				Status:       connectiondomain.StatusActive,
			})),
		},
		PendingAlerts: c.count(func() (int64, error) { return s.alertRepo.CountByStatus(ctx, s.db, alertdomain.StatusPending) }),
	}
	if c.err != nil {
		return domain.Stats{}, c.err
	}

	stats.OperatorStats = make([]domain.OperatorStat, 0, len(connectiondomain.Operators()))
	for _, op := range connectiondomain.Operators() {
		stat := domain.OperatorStat{
			Operator:         string(op),
			RechargeCount:    c.count(activeRecharges(rechargedomain.ListRechargeFilter{Operator: op})),
			ConnectionsCount: c.count(connections(connectiondomain.ListConnectionFilter{Operator: op, Status: connectiondomain.StatusActive})),
			Type:             string(op.Type()),
		}
		if c.err != nil {
			return domain.Stats{}, c.err
		}
		total, err := s.rechargeRepo.SumCost(ctx, s.db, rechargedomain.ListRechargeFilter{Operator: op})
		if err != nil {
			return domain.Stats{}, err
		}
		stat.TotalCost = total
		stats.OperatorStats = append(stats.OperatorStats, stat)
	}

	return stats, nil
}
