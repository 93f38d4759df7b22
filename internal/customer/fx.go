package customer

import (
	"github.com/billforge/billforge/internal/customer/repository"
	"github.com/billforge/billforge/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
