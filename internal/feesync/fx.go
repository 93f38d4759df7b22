package feesync

import "go.uber.org/fx"

var Module = fx.Module("feesync",
	fx.Provide(
		New,
		NewWorker,
	),
	fx.Invoke(registerWorker),
)
