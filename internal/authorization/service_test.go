package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestZoneMutationsRequireSuperAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, action := range []string{ActionCreate, ActionUpdate, ActionDelete} {
		assert.NoError(t, svc.Authorize(ctx, "super_admin", ObjectZone, action), action)
		assert.ErrorIs(t, svc.Authorize(ctx, "zone_admin", ObjectZone, action), ErrForbidden, action)
		assert.ErrorIs(t, svc.Authorize(ctx, "field_agent", ObjectZone, action), ErrForbidden, action)
	}
}

func TestAgencyMutationsAllowZoneAdmins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, action := range []string{ActionCreate, ActionUpdate, ActionDelete} {
		assert.NoError(t, svc.Authorize(ctx, "super_admin", ObjectAgency, action))
		assert.NoError(t, svc.Authorize(ctx, "zone_admin", ObjectAgency, action))
		assert.ErrorIs(t, svc.Authorize(ctx, "field_agent", ObjectAgency, action), ErrForbidden)
	}
}

func TestOpenWritesForEveryRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, role := range []string{"super_admin", "zone_admin", "field_agent"} {
		for _, object := range []string{ObjectGare, ObjectConnection, ObjectRecharge} {
			for _, action := range []string{ActionCreate, ActionUpdate, ActionDelete} {
				assert.NoError(t, svc.Authorize(ctx, role, object, action), "%s %s %s", role, object, action)
			}
		}
		assert.NoError(t, svc.Authorize(ctx, role, ObjectAlert, ActionDismiss))
	}
}

func TestAdminActions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "super_admin", ObjectAdmin, ActionReset))
	assert.ErrorIs(t, svc.Authorize(ctx, "zone_admin", ObjectAdmin, ActionReset), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "field_agent", ObjectAuditLog, ActionView), ErrForbidden)
}

func TestAuthorizeRejectsUnknownInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "guest", ObjectZone, ActionCreate), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "super_admin", "", ActionCreate), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "super_admin", ObjectZone, " "), ErrInvalidAction)
}

func TestEnforcerSeedIsIdempotentWithGormAdapter(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	first, err := NewEnforcer(conn)
	require.NoError(t, err)
	firstPolicies, err := first.GetPolicy()
	require.NoError(t, err)

	second, err := NewEnforcer(conn)
	require.NoError(t, err)
	secondPolicies, err := second.GetPolicy()
	require.NoError(t, err)

	assert.Len(t, secondPolicies, len(firstPolicies))

	allowed, err := second.Enforce("role:zone_admin", ObjectAgency, ActionCreate)
	require.NoError(t, err)
	assert.True(t, allowed)
}
