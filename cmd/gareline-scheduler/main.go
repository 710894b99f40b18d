package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/agency"
	"github.com/smallbiznis/gareline/internal/alert"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/connection"
	"github.com/smallbiznis/gareline/internal/gare"
	"github.com/smallbiznis/gareline/internal/notification"
	"github.com/smallbiznis/gareline/internal/observability"
	"github.com/smallbiznis/gareline/internal/providers"
	"github.com/smallbiznis/gareline/internal/ratelimit"
	"github.com/smallbiznis/gareline/internal/recharge"
	"github.com/smallbiznis/gareline/internal/scheduler"
	"github.com/smallbiznis/gareline/internal/zone"
	"github.com/smallbiznis/gareline/pkg/db"
	"go.uber.org/fx"
)

// gareline-scheduler runs the background jobs without the HTTP server. Run it
// next to API replicas started with SCHEDULER_ENABLED=false.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Domain services required by the jobs
		zone.Module,
		agency.Module,
		gare.Module,
		connection.Module,
		recharge.Module,
		alert.Module,

		// Alert delivery and job locks
		providers.Module,
		notification.Module,
		ratelimit.Module,

		// No server module!
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
