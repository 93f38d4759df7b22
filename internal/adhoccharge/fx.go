package adhoccharge

import (
	"github.com/billforge/billforge/internal/adhoccharge/repository"
	"github.com/billforge/billforge/internal/adhoccharge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("adhoccharge",
	fx.Provide(
		repository.New,
		service.New,
	),
)
