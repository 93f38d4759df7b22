package invoicing

import (
	"github.com/billforge/billforge/internal/invoicing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicing",
	fx.Provide(service.New),
)
