package agency

import (
	"github.com/smallbiznis/gareline/internal/agency/repository"
	"github.com/smallbiznis/gareline/internal/agency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("agency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
