package gare

import (
	"github.com/smallbiznis/gareline/internal/gare/repository"
	"github.com/smallbiznis/gareline/internal/gare/service"
	"go.uber.org/fx"
)

var Module = fx.Module("gare.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
