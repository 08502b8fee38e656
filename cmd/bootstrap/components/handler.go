package components

import (
	"loyalty-engine/internal/handler"
	"loyalty-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCouponHandler,
		api.NewPointsHandler,
	),
	fx.Invoke(handler.NewRouter),
)
