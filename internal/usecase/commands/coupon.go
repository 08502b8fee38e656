package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/domain/history"
	"loyalty-engine/internal/domain/verification"
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/pkg/config"
	"loyalty-engine/internal/pkg/errs"
	"loyalty-engine/internal/pkg/secretcode"
	"loyalty-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ExchangeResult struct {
	Coupon shared.CouponSnapshot
}

type VerifyResult struct {
	Coupon shared.CouponSnapshot
}

type CouponCommands interface {
	// Reload loads and repairs the persisted store; called on cold start.
	Reload(ctx context.Context) error
	Exchange(ctx context.Context, kind coupon.Kind, pointBalance int64) (*ExchangeResult, error)
	UseDirectly(ctx context.Context, couponID uuid.UUID) error
	VerifyByCode(ctx context.Context, rawCode string) (*VerifyResult, error)
	// PersistNow is the best-effort backgrounding save; it is a durability
	// safety net, not a transactional guarantee.
	PersistNow(ctx context.Context) error
	Snapshot() *shared.StoreSnapshot
}

// couponCommandsImpl serializes every mutating operation through a single
// non-reentrant gate and follows read-modify-write throughout: the
// authoritative state is cloned, the clone is mutated and persisted, and only
// after persistence succeeds is the clone published to readers.
type couponCommandsImpl struct {
	gate     *shared.Gate
	store    StateStore
	lockouts LockoutStore
	ledger   LedgerService
	clock    clock.Clock
	policy   config.EngineConfig

	// Guarded by gate.
	current           *coupon.Store
	guardState        verification.State
	lastExchangeStart time.Time

	published atomic.Pointer[shared.StoreSnapshot]
}

func NewCouponCommands(
	store StateStore,
	lockouts LockoutStore,
	ledger LedgerService,
	clk clock.Clock,
	policy config.EngineConfig,
) CouponCommands {
	c := &couponCommandsImpl{
		gate:     shared.NewGate(),
		store:    store,
		lockouts: lockouts,
		ledger:   ledger,
		clock:    clk,
		policy:   policy,
		current:  coupon.NewStore(),
	}
	c.published.Store(&shared.StoreSnapshot{})
	return c
}

func (u *couponCommandsImpl) Reload(ctx context.Context) error {
	if !u.gate.TryAcquire() {
		return ErrBusy
	}
	defer u.gate.Release()

	state, err := u.store.Load(ctx)
	if err != nil {
		return errs.Mark(err, ErrPersistenceFailed)
	}

	lockout, err := u.lockouts.Load(ctx)
	if err != nil {
		return errs.Mark(err, ErrPersistenceFailed)
	}

	u.current = state
	u.guardState = lockout
	u.published.Store(shared.SnapshotFromStore(state))
	return nil
}

func (u *couponCommandsImpl) Snapshot() *shared.StoreSnapshot {
	return u.published.Load()
}

// Exchange converts points into one new coupon. The coupon and its history
// entry are constructed before the point balance is touched, and the clone is
// published only after persistence succeeds, so points are never silently
// lost on a failed issuance.
func (u *couponCommandsImpl) Exchange(ctx context.Context, kind coupon.Kind, pointBalance int64) (*ExchangeResult, error) {
	if !u.gate.TryAcquire() {
		return nil, ErrBusy
	}
	defer u.gate.Release()

	now := u.clock.Now()

	// Cooldown runs from the previous exchange *start*, independent of that
	// call's outcome, to blunt rapid repeated taps.
	if !u.lastExchangeStart.IsZero() {
		elapsed := now.Sub(u.lastExchangeStart)
		if elapsed < u.policy.ExchangeCooldown {
			return nil, &CooldownError{Remaining: u.policy.ExchangeCooldown - elapsed}
		}
	}
	u.lastExchangeStart = now

	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}
	cost := u.policy.CostPerCoupon
	if pointBalance < cost {
		return nil, ErrInsufficientBalance
	}
	if u.current.LiveCount(now) >= u.policy.MaxLiveCoupons {
		return nil, ErrCapacityExceeded
	}

	code, err := secretcode.Generate()
	if err != nil {
		return nil, errs.Mark(err, ErrIssuanceFailed)
	}
	newCoupon, err := coupon.NewCoupon(kind, code, now, u.policy.CouponTTL)
	if err != nil {
		return nil, errs.Mark(err, ErrUnknownKind)
	}

	next := u.current.Clone()
	next.Add(newCoupon, u.policy.CouponCap)
	next.RecordHistory(history.NewExchangeEntry(newCoupon.ID(), newCoupon.Name(), cost, now), u.policy.HistoryCap)
	next.IncExchanged()

	spent, err := u.ledger.SpendPoints(ctx, cost, "coupon exchange")
	if err != nil {
		return nil, errs.Mark(err, ErrSpendRejected)
	}
	if !spent {
		return nil, ErrSpendRejected
	}

	if err := u.store.Save(ctx, next); err != nil {
		return nil, u.compensateCharge(ctx, cost, err)
	}

	u.current = next
	u.published.Store(shared.SnapshotFromStore(next))
	return &ExchangeResult{Coupon: shared.SnapshotFromCoupon(newCoupon)}, nil
}

// compensateCharge attempts to refund a charge whose coupon could not be
// persisted. This is the one place a user-visible inconsistency is preferred
// over silent point loss.
func (u *couponCommandsImpl) compensateCharge(ctx context.Context, cost int64, saveErr error) error {
	cause := errs.Mark(saveErr, ErrPersistenceFailed)

	refunded, err := u.ledger.AddPoints(ctx, cost, "exchange failure refund")
	if err != nil {
		slog.Error("refund after failed exchange persist also failed", "error", err)
		refunded = false
	}
	if !refunded {
		slog.Error("exchange charged points without issuing a coupon", "cost", cost)
	}
	return &ChargeError{Refunded: refunded, cause: cause}
}

func (u *couponCommandsImpl) UseDirectly(ctx context.Context, couponID uuid.UUID) error {
	if !u.gate.TryAcquire() {
		return ErrBusy
	}
	defer u.gate.Release()

	now := u.clock.Now()

	next := u.current.Clone()
	target := next.FindByID(couponID)
	if target == nil {
		return ErrCouponNotFound
	}
	if err := target.Use(now); err != nil {
		return markUsageError(err)
	}
	next.RecordHistory(history.NewUseEntry(target.ID(), target.Name(), now), u.policy.HistoryCap)
	next.IncUsed()

	if err := u.store.Save(ctx, next); err != nil {
		return errs.Mark(err, ErrPersistenceFailed)
	}

	u.current = next
	u.published.Store(shared.SnapshotFromStore(next))
	return nil
}

func (u *couponCommandsImpl) VerifyByCode(ctx context.Context, rawCode string) (*VerifyResult, error) {
	if !u.gate.TryAcquire() {
		return nil, ErrBusy
	}
	defer u.gate.Release()

	now := u.clock.Now()
	guard := verification.NewGuard(u.guardPolicy(), u.guardState)

	locked, remaining, transitioned := guard.Check(now)
	if transitioned {
		u.persistGuard(ctx, guard.State())
	}
	if locked {
		return nil, &LockedOutError{Until: guard.State().LockedUntil, Remaining: remaining}
	}

	normalized := secretcode.Normalize(rawCode)
	if len(normalized) < secretcode.CodeLength {
		// Too-short input is a format error, not a guess: no attempt charged.
		return nil, ErrInvalidCode
	}

	// Scan every coupon with a constant-time comparison; no early exit on
	// match, so the scan cost carries no timing signal about code position.
	var matched *coupon.Coupon
	for _, c := range u.current.Coupons() {
		if secretcode.Match(normalized, secretcode.Normalize(c.SecretCode())) {
			matched = c
		}
	}

	if matched == nil {
		lockedNow := guard.RecordFailure(now)
		u.persistGuard(ctx, guard.State())
		remaining := guard.RemainingAttempts()
		if lockedNow {
			// The lock reset the counter; the caller has no attempts left.
			remaining = 0
		}
		return nil, &WrongCodeError{
			Remaining: remaining,
			LockedNow: lockedNow,
			Until:     guard.State().LockedUntil,
		}
	}

	// A used or expired coupon is not valid proof of possession: the failure
	// is reported without consuming an attempt, but the success-path reset is
	// not applied either.
	if matched.IsUsed() {
		return nil, ErrCouponAlreadyUsed
	}
	if matched.IsExpiredAt(now) {
		return nil, ErrCouponExpired
	}

	if guard.RecordSuccess() {
		u.persistGuard(ctx, guard.State())
	}

	next := u.current.Clone()
	target := next.FindByID(matched.ID())
	if err := target.UseByVerification(now); err != nil {
		return nil, markUsageError(err)
	}
	next.RecordHistory(history.NewUseEntry(target.ID(), target.Name(), now), u.policy.HistoryCap)
	next.IncUsed()

	if err := u.store.Save(ctx, next); err != nil {
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}

	u.current = next
	u.published.Store(shared.SnapshotFromStore(next))
	return &VerifyResult{Coupon: shared.SnapshotFromCoupon(target)}, nil
}

func (u *couponCommandsImpl) PersistNow(ctx context.Context) error {
	if !u.gate.TryAcquire() {
		// An operation is in flight and will persist its own result.
		return nil
	}
	defer u.gate.Release()

	if err := u.store.Save(ctx, u.current); err != nil {
		return errs.Mark(err, ErrPersistenceFailed)
	}
	return nil
}

func (u *couponCommandsImpl) guardPolicy() verification.Policy {
	return verification.Policy{
		MaxAttempts:     u.policy.MaxAttempts,
		LockoutDuration: u.policy.LockoutDuration,
	}
}

// persistGuard writes every guard transition immediately so a process kill
// mid-lockout cannot shed the penalty. A write failure is logged and the
// in-memory state kept; the next transition retries the write.
func (u *couponCommandsImpl) persistGuard(ctx context.Context, state verification.State) {
	u.guardState = state
	if err := u.lockouts.Save(ctx, state); err != nil {
		slog.Error("failed to persist verification lockout state", "error", err)
	}
}

func markUsageError(err error) error {
	switch {
	case errors.Is(err, coupon.ErrAlreadyUsed):
		return errs.Mark(err, ErrCouponAlreadyUsed)
	case errors.Is(err, coupon.ErrExpired):
		return errs.Mark(err, ErrCouponExpired)
	default:
		return err
	}
}
