package rating

import (
	"github.com/billforge/billforge/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.evaluator",
	fx.Provide(service.NewEvaluator),
)
