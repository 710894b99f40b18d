package seed

import (
	"context"
	"errors"

	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	"github.com/smallbiznis/gareline/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Provide(NewAdminSeeder),
)

type Params struct {
	fx.In

	Cfg  config.Config
	Log  *zap.Logger
	Auth authdomain.Service
}

// AdminSeeder creates the first super_admin account from configuration.
type AdminSeeder struct {
	email    string
	password string
	name     string
	log      *zap.Logger
	auth     authdomain.Service
}

func NewAdminSeeder(p Params) *AdminSeeder {
	return &AdminSeeder{
		email:    p.Cfg.BootstrapAdminEmail,
		password: p.Cfg.BootstrapAdminPassword,
		name:     p.Cfg.BootstrapAdminName,
		log:      p.Log.Named("seed"),
		auth:     p.Auth,
	}
}

// EnsureBootstrapAdmin is a no-op when no bootstrap email is configured.
func (s *AdminSeeder) EnsureBootstrapAdmin(ctx context.Context) error {
	if s == nil || s.email == "" {
		return nil
	}
	if s.password == "" {
		return errors.New("BOOTSTRAP_ADMIN_PASSWORD is required when BOOTSTRAP_ADMIN_EMAIL is set")
	}

	user, created, err := s.auth.EnsureAdmin(ctx, authdomain.RegisterRequest{
		Email:    s.email,
		Password: s.password,
		FullName: s.name,
		Role:     string(authdomain.RoleSuperAdmin),
	})
	if err != nil {
		return err
	}
	if created {
		s.log.Info("bootstrap admin created", zap.String("email", user.Email), zap.String("user_id", user.ID.String()))
	} else {
		s.log.Debug("bootstrap admin already present", zap.String("email", s.email))
	}
	return nil
}
