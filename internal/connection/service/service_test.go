package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/connection/domain"
	"github.com/smallbiznis/gareline/internal/connection/repository"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	garerepository "github.com/smallbiznis/gareline/internal/gare/repository"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	rechargerepository "github.com/smallbiznis/gareline/internal/recharge/repository"
	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	svc  domain.Service
	conn *gorm.DB
	node *snowflake.Node
	gare garedomain.Gare
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&garedomain.Gare{}, &domain.Connection{}, &rechargedomain.Recharge{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	gare := garedomain.Gare{
		ID:          node.Generate(),
		Name:        "Gare de Bobo-Dioulasso",
		AgencyID:    node.Generate(),
		FieldAgents: datatypes.JSONSlice[string]{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, garerepository.Provide().Insert(context.Background(), dbConn, &gare))

	svc := New(Params{
		DB:           dbConn,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clock.NewFakeClock(now),
		Repo:         repository.Provide(),
		GareRepo:     garerepository.Provide(),
		RechargeRepo: rechargerepository.Provide(),
	})
	return testEnv{svc: svc, conn: dbConn, node: node, gare: gare}
}

func (e testEnv) createRequest(line string) domain.CreateConnectionRequest {
	return domain.CreateConnectionRequest{
		LineNumber:     line,
		GareID:         e.gare.ID.String(),
		Operator:       string(domain.OperatorOrange),
		ConnectionType: "4G",
	}
}

func TestConnectionCreateDefaultsAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.createRequest("X-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Equal(t, domain.OperatorTypeMobile, created.OperatorType)
	assert.Nil(t, created.ExpiryDate)

	_, err = env.svc.Create(ctx, env.createRequest("X-1"))
	assert.ErrorIs(t, err, domain.ErrLineNumberExists)

	_, err = env.svc.Create(ctx, env.createRequest("X-2"))
	assert.NoError(t, err)
}

func TestConnectionCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := env.createRequest("X-1")
	req.Operator = "Airtel"
	_, err := env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidOperator)

	req = env.createRequest("X-1")
	req.ConnectionType = ""
	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidConnectionType)

	req = env.createRequest("X-1")
	req.GareID = env.node.Generate().String()
	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, garedomain.ErrNotFound)

	req = env.createRequest(" ")
	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidLineNumber)
}

func TestConnectionUpdateExcludesItselfFromDuplicateCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, env.createRequest("X-1"))
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, env.createRequest("X-2"))
	require.NoError(t, err)

	suspended := string(domain.StatusSuspended)
	updated, err := env.svc.Update(ctx, first.ID.String(), domain.UpdateConnectionRequest{
		CreateConnectionRequest: env.createRequest("X-1"),
		Status:                  &suspended,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, updated.Status)

	_, err = env.svc.Update(ctx, first.ID.String(), domain.UpdateConnectionRequest{
		CreateConnectionRequest: env.createRequest("X-2"),
	})
	assert.ErrorIs(t, err, domain.ErrLineNumberExists)

	_, err = env.svc.Update(ctx, env.node.Generate().String(), domain.UpdateConnectionRequest{
		CreateConnectionRequest: env.createRequest("X-9"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnectionListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.createRequest("X-1"))
	require.NoError(t, err)
	fibre := env.createRequest("F-1")
	fibre.Operator = string(domain.OperatorCanalbox)
	_, err = env.svc.Create(ctx, fibre)
	require.NoError(t, err)

	all, err := env.svc.List(ctx, domain.ListConnectionRequest{GareID: env.gare.ID.String()})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	canalbox, err := env.svc.List(ctx, domain.ListConnectionRequest{Operator: "Canalbox"})
	require.NoError(t, err)
	require.Len(t, canalbox, 1)
	assert.Equal(t, domain.OperatorTypeFibre, canalbox[0].OperatorType)

	_, err = env.svc.List(ctx, domain.ListConnectionRequest{Status: "deleted"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestConnectionDeleteGuardsActiveRecharges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	connection, err := env.svc.Create(ctx, env.createRequest("X-1"))
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	recharge := rechargedomain.Recharge{
		ID:           env.node.Generate(),
		ConnectionID: connection.ID,
		LineNumber:   connection.LineNumber,
		GareID:       connection.GareID,
		Operator:     connection.Operator,
		OperatorType: connection.OperatorType,
		PaymentType:  rechargedomain.PaymentTypePrepaid,
		StartDate:    now,
		EndDate:      now.Add(48 * time.Hour),
		Cost:         1000,
		Status:       rechargedomain.StatusExpiringSoon,
		CreatedBy:    "agent",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rechargeRepo := rechargerepository.Provide()
	require.NoError(t, rechargeRepo.Insert(ctx, env.conn, &recharge))

	err = env.svc.Delete(ctx, connection.ID.String())
	assert.ErrorIs(t, err, domain.ErrHasActiveRecharges)

	require.NoError(t, env.conn.Model(&rechargedomain.Recharge{}).
		Where("id = ?", recharge.ID).
		Update("status", rechargedomain.StatusExpired).Error)

	require.NoError(t, env.svc.Delete(ctx, connection.ID.String()))
	_, err = env.svc.GetByID(ctx, connection.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, env.svc.Delete(ctx, connection.ID.String()), domain.ErrNotFound)
}
