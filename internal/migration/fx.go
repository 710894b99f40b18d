package migration

import (
	"context"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		return Migrate(conn, cfg.DBType)
	}),
	fx.Invoke(func(lc fx.Lifecycle, admin *seed.AdminSeeder) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return admin.EnsureBootstrapAdmin(ctx)
			},
		})
	}),
)
