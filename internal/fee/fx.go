package fee

import (
	"github.com/billforge/billforge/internal/fee/repository"
	"github.com/billforge/billforge/internal/fee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fee.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
