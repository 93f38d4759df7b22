package dispute

import (
	"github.com/billforge/billforge/internal/dispute/repository"
	"github.com/billforge/billforge/internal/dispute/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispute",
	fx.Provide(
		repository.New,
		service.New,
	),
)
