package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	agencyrepository "github.com/smallbiznis/gareline/internal/agency/repository"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	alertrepository "github.com/smallbiznis/gareline/internal/alert/repository"
	"github.com/smallbiznis/gareline/internal/clock"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	connectionrepository "github.com/smallbiznis/gareline/internal/connection/repository"
	"github.com/smallbiznis/gareline/internal/dashboard/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	garerepository "github.com/smallbiznis/gareline/internal/gare/repository"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	rechargerepository "github.com/smallbiznis/gareline/internal/recharge/repository"
	rechargeservice "github.com/smallbiznis/gareline/internal/recharge/service"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	zonerepository "github.com/smallbiznis/gareline/internal/zone/repository"
	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&zonedomain.Zone{},
		&agencydomain.Agency{},
		&garedomain.Gare{},
		&connectiondomain.Connection{},
		&rechargedomain.Recharge{},
		&alertdomain.Alert{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	rechargeRepo := rechargerepository.Provide()
	connectionRepo := connectionrepository.Provide()
	alertRepo := alertrepository.Provide()
	svc := New(Params{
		DB:             conn,
		Log:            zap.NewNop(),
		ZoneRepo:       zonerepository.Provide(),
		AgencyRepo:     agencyrepository.Provide(),
		GareRepo:       garerepository.Provide(),
		ConnectionRepo: connectionRepo,
		RechargeRepo:   rechargeRepo,
		AlertRepo:      alertRepo,
		RechargeSvc: rechargeservice.New(rechargeservice.Params{
			DB:             conn,
			Log:            zap.NewNop(),
			GenID:          node,
			Clock:          clock.NewFakeClock(baseTime),
			Repo:           rechargeRepo,
			ConnectionRepo: connectionRepo,
			AlertRepo:      alertRepo,
		}),
	})
	return svc, conn, node
}

func TestStatsEmptyDatabase(t *testing.T) {
	svc, _, _ := newService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecharges)
	assert.Len(t, stats.OperatorStats, 9)
	for _, op := range stats.OperatorStats {
		assert.Zero(t, op.RechargeCount)
		assert.Zero(t, op.TotalCost)
	}
}

func TestStatsCountsAfterReconcile(t *testing.T) {
	svc, conn, node := newService(t)

	zone := zonedomain.Zone{ID: node.Generate(), Name: "Centre", AdminUsers: datatypes.JSONSlice[string]{}, CreatedAt: baseTime, UpdatedAt: baseTime}
	agency := agencydomain.Agency{ID: node.Generate(), Name: "Ouaga", ZoneID: zone.ID, AdminUsers: datatypes.JSONSlice[string]{}, CreatedAt: baseTime, UpdatedAt: baseTime}
	gare := garedomain.Gare{ID: node.Generate(), Name: "Gare Centrale", AgencyID: agency.ID, FieldAgents: datatypes.JSONSlice[string]{}, CreatedAt: baseTime, UpdatedAt: baseTime}
	require.NoError(t, conn.Create(&zone).Error)
	require.NoError(t, conn.Create(&agency).Error)
	require.NoError(t, conn.Create(&gare).Error)

	connection := func(line string, op connectiondomain.Operator, status connectiondomain.Status) {
		require.NoError(t, conn.Create(&connectiondomain.Connection{
			ID: node.Generate(), LineNumber: line, GareID: gare.ID, Operator: op, OperatorType: op.Type(),
			ConnectionType: "4G", Status: status, CreatedAt: baseTime, UpdatedAt: baseTime,
		}).Error)
	}
	connection("70000001", connectiondomain.OperatorOrange, connectiondomain.StatusActive)
	connection("50000001", connectiondomain.OperatorCanalbox, connectiondomain.StatusActive)
	connection("60000001", connectiondomain.OperatorMoov, connectiondomain.StatusInactive)

	recharge := func(op connectiondomain.Operator, payment rechargedomain.PaymentType, end time.Time, cost float64) {
		require.NoError(t, conn.Create(&rechargedomain.Recharge{
			ID: node.Generate(), ConnectionID: node.Generate(), LineNumber: "x", GareID: gare.ID,
			Operator: op, OperatorType: op.Type(), PaymentType: payment,
			StartDate: end.Add(-30 * 24 * time.Hour), EndDate: end, Cost: cost,
			Status: rechargedomain.StatusActive, CreatedBy: "seed", CreatedAt: baseTime, UpdatedAt: baseTime,
		}).Error)
	}
	recharge(connectiondomain.OperatorOrange, rechargedomain.PaymentTypePrepaid, baseTime.Add(30*24*time.Hour), 1000)
	recharge(connectiondomain.OperatorOrange, rechargedomain.PaymentTypePostpaid, baseTime.Add(-24*time.Hour), 500)
	recharge(connectiondomain.OperatorCanalbox, rechargedomain.PaymentTypePostpaid, baseTime.Add(24*time.Hour), 3000)

	for _, status := range []alertdomain.Status{alertdomain.StatusPending, alertdomain.StatusPending, alertdomain.StatusSent} {
		require.NoError(t, conn.Create(&alertdomain.Alert{
			ID: node.Generate(), RechargeID: node.Generate(), AlertDate: baseTime, DaysBeforeExpiry: 3,
			Message: "m", Status: status, CreatedAt: baseTime,
		}).Error)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalZones)
	assert.Equal(t, int64(1), stats.TotalAgencies)
	assert.Equal(t, int64(1), stats.TotalGares)
	assert.Equal(t, int64(3), stats.TotalConnections)
	assert.Equal(t, int64(2), stats.ActiveConnections)
	assert.Equal(t, int64(1), stats.InactiveConnections)
	assert.Equal(t, int64(3), stats.TotalRecharges)
	assert.Equal(t, int64(1), stats.ActiveRecharges)
	assert.Equal(t, int64(1), stats.ExpiringRecharges)
	assert.Equal(t, int64(1), stats.ExpiredRecharges)
	assert.Equal(t, stats.TotalRecharges, stats.ActiveRecharges+stats.ExpiringRecharges+stats.ExpiredRecharges)
	assert.Equal(t, domain.PaymentTypeStats{Prepaid: 1, Postpaid: 0}, stats.PaymentTypeStats)
	assert.Equal(t, domain.ConnectionTypeStats{Mobile: 1, Fibre: 1}, stats.ConnectionTypeStats)
	assert.Equal(t, int64(2), stats.PendingAlerts)

	byOperator := map[string]domain.OperatorStat{}
	for _, op := range stats.OperatorStats {
		byOperator[op.Operator] = op
	}
	assert.Equal(t, domain.OperatorStat{Operator: "Orange", RechargeCount: 1, ConnectionsCount: 1, TotalCost: 1500, Type: "mobile"}, byOperator["Orange"])
	assert.Equal(t, domain.OperatorStat{Operator: "Canalbox", RechargeCount: 0, ConnectionsCount: 1, TotalCost: 3000, Type: "fibre"}, byOperator["Canalbox"])
	assert.Equal(t, domain.OperatorStat{Operator: "Moov", RechargeCount: 0, ConnectionsCount: 0, TotalCost: 0, Type: "mobile"}, byOperator["Moov"])
}
