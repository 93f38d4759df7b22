package usage

import (
	"github.com/billforge/billforge/internal/usage/repository"
	"github.com/billforge/billforge/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(service.NewResolver),
)
