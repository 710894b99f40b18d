package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	alertrepository "github.com/smallbiznis/gareline/internal/alert/repository"
	"github.com/smallbiznis/gareline/internal/clock"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	connectionrepository "github.com/smallbiznis/gareline/internal/connection/repository"
	obscontext "github.com/smallbiznis/gareline/internal/observability/context"
	"github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/internal/recharge/repository"
	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	svc        domain.Service
	conn       *gorm.DB
	node       *snowflake.Node
	clock      *clock.FakeClock
	connection connectiondomain.Connection
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&connectiondomain.Connection{}, &domain.Recharge{}, &alertdomain.Alert{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	connection := connectiondomain.Connection{
		ID:             node.Generate(),
		LineNumber:     "X-1",
		GareID:         node.Generate(),
		Operator:       connectiondomain.OperatorMoov,
		OperatorType:   connectiondomain.OperatorTypeMobile,
		ConnectionType: "4G",
		Status:         connectiondomain.StatusActive,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
	require.NoError(t, connectionrepository.Provide().Insert(context.Background(), dbConn, &connection))

	fake := clock.NewFakeClock(baseTime)
	svc := New(Params{
		DB:             dbConn,
		Log:            zap.NewNop(),
		GenID:          node,
		Clock:          fake,
		Repo:           repository.Provide(),
		ConnectionRepo: connectionrepository.Provide(),
		AlertRepo:      alertrepository.Provide(),
	})
	return testEnv{svc: svc, conn: dbConn, node: node, clock: fake, connection: connection}
}

func (e testEnv) request(start, end time.Time, cost float64) domain.CreateRechargeRequest {
	return domain.CreateRechargeRequest{
		ConnectionID: e.connection.ID.String(),
		PaymentType:  string(domain.PaymentTypePrepaid),
		StartDate:    domain.JSONTime{Time: start},
		EndDate:      domain.JSONTime{Time: end},
		Cost:         cost,
	}
}

func (e testEnv) insertRecharge(t *testing.T, end time.Time, status domain.Status) domain.Recharge {
	t.Helper()
	recharge := domain.Recharge{
		ID:           e.node.Generate(),
		ConnectionID: e.connection.ID,
		LineNumber:   e.connection.LineNumber,
		GareID:       e.connection.GareID,
		Operator:     e.connection.Operator,
		OperatorType: e.connection.OperatorType,
		PaymentType:  domain.PaymentTypePostpaid,
		StartDate:    end.Add(-30 * 24 * time.Hour),
		EndDate:      end,
		Cost:         500,
		Status:       status,
		CreatedBy:    "seed",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, repository.Provide().Insert(context.Background(), e.conn, &recharge))
	return recharge
}

func TestRechargeCreateDenormalizesAndGeneratesAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := obscontext.WithActor(context.Background(), "user-1", "field_agent")

	end := baseTime.Add(2 * 24 * time.Hour)
	created, err := env.svc.Create(ctx, env.request(baseTime, end, 1000))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Equal(t, "X-1", created.LineNumber)
	assert.Equal(t, env.connection.GareID, created.GareID)
	assert.Equal(t, connectiondomain.OperatorMoov, created.Operator)
	assert.Equal(t, "user-1", created.CreatedBy)

	var alerts []alertdomain.Alert
	require.NoError(t, env.conn.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, created.ID, alerts[0].RechargeID)
	assert.Equal(t, alertdomain.StatusPending, alerts[0].Status)
	assert.Equal(t, 3, alerts[0].DaysBeforeExpiry)
	assert.True(t, alerts[0].AlertDate.Equal(baseTime.Add(-24*time.Hour)))
	assert.Equal(t, "Ligne X-1 (Moov) expire dans 3 jours", alerts[0].Message)

	connection, err := connectionrepository.Provide().FindByID(ctx, env.conn, env.connection.ID)
	require.NoError(t, err)
	require.NotNil(t, connection.ExpiryDate)
	assert.True(t, connection.ExpiryDate.Equal(end))
	require.NotNil(t, connection.LastRechargeDate)
	assert.True(t, connection.LastRechargeDate.Equal(baseTime))

	soon, err := env.svc.List(ctx, domain.ListRechargeRequest{Status: string(domain.StatusExpiringSoon)})
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, created.ID, soon[0].ID)
}

func TestRechargeCreateRequiresConnection(t *testing.T) {
	env := newTestEnv(t)

	req := env.request(baseTime, baseTime.Add(time.Hour), 10)
	req.ConnectionID = env.node.Generate().String()
	_, err := env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, connectiondomain.ErrNotFound)

	req = env.request(baseTime, baseTime.Add(time.Hour), 10)
	req.PaymentType = "credit"
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentType)

	var count int64
	require.NoError(t, env.conn.Model(&alertdomain.Alert{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReconcileTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := env.insertRecharge(t, baseTime.Add(-time.Hour), domain.StatusActive)
	pastSoon := env.insertRecharge(t, baseTime.Add(-48*time.Hour), domain.StatusExpiringSoon)
	alreadyExpired := env.insertRecharge(t, baseTime.Add(-72*time.Hour), domain.StatusExpired)
	soon := env.insertRecharge(t, baseTime.Add(24*time.Hour), domain.StatusActive)
	later := env.insertRecharge(t, baseTime.Add(10*24*time.Hour), domain.StatusActive)

	result, err := env.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcileResult{Expired: 2, ExpiringSoon: 1}, result)

	expect := map[snowflake.ID]domain.Status{
		past.ID:           domain.StatusExpired,
		pastSoon.ID:       domain.StatusExpired,
		alreadyExpired.ID: domain.StatusExpired,
		soon.ID:           domain.StatusExpiringSoon,
		later.ID:          domain.StatusActive,
	}
	for id, status := range expect {
		got, err := env.svc.GetByID(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, status, got.Status, "recharge %s", id)
	}

	again, err := env.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcileResult{}, again)
}

func TestReconcileNeverMovesBackward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recharge := env.insertRecharge(t, baseTime.Add(-time.Hour), domain.StatusActive)
	_, err := env.svc.Reconcile(ctx)
	require.NoError(t, err)

	require.NoError(t, env.conn.Model(&domain.Recharge{}).
		Where("id = ?", recharge.ID).
		Update("end_date", baseTime.Add(24*time.Hour)).Error)

	_, err = env.svc.Reconcile(ctx)
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, recharge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
}

func TestReconcileFollowsClock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recharge := env.insertRecharge(t, baseTime.Add(5*24*time.Hour), domain.StatusActive)

	env.clock.Advance(3 * 24 * time.Hour)
	_, err := env.svc.Reconcile(ctx)
	require.NoError(t, err)
	got, err := env.svc.GetByID(ctx, recharge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpiringSoon, got.Status)

	env.clock.Advance(3 * 24 * time.Hour)
	_, err = env.svc.Reconcile(ctx)
	require.NoError(t, err)
	got, err = env.svc.GetByID(ctx, recharge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
}

func TestRechargeUpdateKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recharge := env.insertRecharge(t, baseTime.Add(-time.Hour), domain.StatusExpired)
	desc := "renouvellement"
	req := env.request(baseTime, baseTime.Add(30*24*time.Hour), 2500)
	req.Description = &desc

	updated, err := env.svc.Update(ctx, recharge.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, updated.Status)
	assert.Equal(t, 2500.0, updated.Cost)
	assert.Equal(t, domain.PaymentTypePrepaid, updated.PaymentType)

	require.NoError(t, env.svc.Delete(ctx, recharge.ID.String()))
	assert.ErrorIs(t, env.svc.Delete(ctx, recharge.ID.String()), domain.ErrNotFound)
}
