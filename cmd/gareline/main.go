package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/migration"
	"github.com/smallbiznis/gareline/internal/observability"
	"github.com/smallbiznis/gareline/internal/scheduler"
	"github.com/smallbiznis/gareline/internal/server"
	"github.com/smallbiznis/gareline/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// HTTP surface and every domain service behind it
		server.Module,

		// Schema, bootstrap admin and background jobs
		migration.Module,
		scheduler.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
