package components

import (
	"loyalty-engine/internal/handler/api"
	"loyalty-engine/internal/infra/ledger"
	"loyalty-engine/internal/infra/storage"
	"loyalty-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		fx.Annotate(
			storage.NewFileStore,
			fx.As(new(commands.StateStore)),
		),
		fx.Annotate(
			storage.NewLockoutFileStore,
			fx.As(new(commands.LockoutStore)),
		),
		ledger.NewPointsLedger,
		fx.Annotate(
			func(l *ledger.PointsLedger) *ledger.PointsLedger { return l },
			fx.As(new(commands.LedgerService)),
		),
		fx.Annotate(
			func(l *ledger.PointsLedger) *ledger.PointsLedger { return l },
			fx.As(new(api.PointsService)),
		),
	),
)
