package auth

import (
	"github.com/smallbiznis/gareline/internal/auth/repository"
	"github.com/smallbiznis/gareline/internal/auth/service"
	"github.com/smallbiznis/gareline/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(token.Provide),
	fx.Provide(service.New),
)
