package commands

import (
	"context"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/domain/verification"
)

// StateStore persists the coupon aggregate. Load returns a repaired,
// ready-to-use store (fresh and empty when nothing usable exists on disk);
// Save must not report success unless the written record verifies.
type StateStore interface {
	Load(ctx context.Context) (*coupon.Store, error)
	Save(ctx context.Context, s *coupon.Store) error
}

// LockoutStore persists the verification guard state independently of the
// coupon store, so abandoning the verification flow cannot reset the
// attempt counter.
type LockoutStore interface {
	Load(ctx context.Context) (verification.State, error)
	Save(ctx context.Context, st verification.State) error
}

// LedgerService is the external points-balance capability. Both calls may
// fail; the engine observes nothing beyond the boolean result.
type LedgerService interface {
	SpendPoints(ctx context.Context, amount int64, reason string) (bool, error)
	AddPoints(ctx context.Context, amount int64, reason string) (bool, error)
}
