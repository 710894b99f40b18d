package connection

import (
	"github.com/smallbiznis/gareline/internal/connection/repository"
	"github.com/smallbiznis/gareline/internal/connection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("connection.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
