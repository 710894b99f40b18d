package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/internal/agency/repository"
	"github.com/smallbiznis/gareline/internal/clock"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	zonerepository "github.com/smallbiznis/gareline/internal/zone/repository"
	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&zonedomain.Zone{}, &domain.Agency{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)),
		Repo:     repository.Provide(),
		ZoneRepo: zonerepository.Provide(),
	}), dbConn, node
}

func seedZone(t *testing.T, conn *gorm.DB, node *snowflake.Node, name string) zonedomain.Zone {
	t.Helper()
	now := time.Now().UTC()
	zone := zonedomain.Zone{
		ID:         node.Generate(),
		Name:       name,
		AdminUsers: datatypes.JSONSlice[string]{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, zonerepository.Provide().Insert(context.Background(), conn, &zone))
	return zone
}

func TestAgencyCreateRequiresExistingZone(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateAgencyRequest{
		Name:   "Agence Ouaga",
		ZoneID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, zonedomain.ErrNotFound)

	_, err = svc.Create(context.Background(), domain.CreateAgencyRequest{Name: "Agence Ouaga", ZoneID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidZoneID)
}

func TestAgencyListFiltersByZone(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()

	centre := seedZone(t, conn, node, "Centre")
	ouest := seedZone(t, conn, node, "Ouest")

	_, err := svc.Create(ctx, domain.CreateAgencyRequest{Name: "Ouaga", ZoneID: centre.ID.String()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateAgencyRequest{Name: "Bobo", ZoneID: ouest.ID.String()})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListAgencyRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, domain.ListAgencyRequest{ZoneID: ouest.ID.String()})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Bobo", filtered[0].Name)
}

func TestAgencyUpdateAndDelete(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	zone := seedZone(t, conn, node, "Centre")

	created, err := svc.Create(ctx, domain.CreateAgencyRequest{Name: "Ouaga", ZoneID: zone.ID.String()})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateAgencyRequest{Name: "Ouaga Centre", ZoneID: zone.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Ouaga Centre", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)
}
