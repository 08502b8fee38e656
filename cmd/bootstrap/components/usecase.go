package components

import (
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/usecase/commands"
	"loyalty-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewCouponCommands,
		func(c commands.CouponCommands) queries.SnapshotSource { return c },
		queries.NewCouponQueries,
	),
)
