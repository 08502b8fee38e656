package bootstrap

import (
	"loyalty-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	components.StorageModule,
	components.UseCaseModule,
	components.HandlerModule,
)
