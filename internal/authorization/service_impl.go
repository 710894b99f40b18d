package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	persist "github.com/casbin/casbin/v2/persist"
	auditdomain "github.com/smallbiznis/gareline/internal/audit/domain"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

// NewEnforcer loads policies from the casbin_rule table and seeds the static
// role table on top of them.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcer(adapter)
}

// NewMemoryEnforcer builds an enforcer without persistence.
func NewMemoryEnforcer() (*casbin.SyncedEnforcer, error) {
	return newEnforcer(nil)
}

func newEnforcer(adapter persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if adapter != nil {
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
	}
	if err != nil {
		return nil, err
	}

	enforcer.EnableAutoSave(adapter != nil)
	enforcer.EnableAutoBuildRoleLinks(true)
	if adapter != nil {
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role string, object string, action string) error {
	role = strings.TrimSpace(role)
	if !authdomain.Role(role).Valid() {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(subject(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		s.auditDenied(ctx, role, object, action)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) auditDenied(ctx context.Context, role string, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	targetID := object + "." + action
	_ = s.auditSvc.AuditLog(ctx, "authorization.denied", "authorization", &targetID, map[string]any{
		"object": object,
		"action": action,
		"role":   role,
	})
}

func subject(role string) string {
	return "role:" + role
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	superAdmin := subject(string(authdomain.RoleSuperAdmin))
	zoneAdmin := subject(string(authdomain.RoleZoneAdmin))

	policies := [][]string{
		{superAdmin, ObjectZone, ActionCreate},
		{superAdmin, ObjectZone, ActionUpdate},
		{superAdmin, ObjectZone, ActionDelete},
		{superAdmin, ObjectAgency, ActionCreate},
		{superAdmin, ObjectAgency, ActionUpdate},
		{superAdmin, ObjectAgency, ActionDelete},
		{superAdmin, ObjectAdmin, ActionReset},
		{superAdmin, ObjectAuditLog, ActionView},

		{zoneAdmin, ObjectAgency, ActionCreate},
		{zoneAdmin, ObjectAgency, ActionUpdate},
		{zoneAdmin, ObjectAgency, ActionDelete},

		// Gare, connection and recharge writes are open to every signed-in role.
		{GroupAuthenticated, ObjectGare, ActionCreate},
		{GroupAuthenticated, ObjectGare, ActionUpdate},
		{GroupAuthenticated, ObjectGare, ActionDelete},
		{GroupAuthenticated, ObjectConnection, ActionCreate},
		{GroupAuthenticated, ObjectConnection, ActionUpdate},
		{GroupAuthenticated, ObjectConnection, ActionDelete},
		{GroupAuthenticated, ObjectRecharge, ActionCreate},
		{GroupAuthenticated, ObjectRecharge, ActionUpdate},
		{GroupAuthenticated, ObjectRecharge, ActionDelete},
		{GroupAuthenticated, ObjectAlert, ActionDismiss},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}

	for _, role := range []authdomain.Role{authdomain.RoleSuperAdmin, authdomain.RoleZoneAdmin, authdomain.RoleFieldAgent} {
		has, err := enforcer.HasGroupingPolicy(subject(string(role)), GroupAuthenticated)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(subject(string(role)), GroupAuthenticated); err != nil {
			return err
		}
	}
	return nil
}
