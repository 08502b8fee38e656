package commands

import (
	"fmt"
	"time"

	"loyalty-engine/internal/pkg/errs"
)

var (
	ErrBusy                = errs.New("another coupon operation is in flight")
	ErrCooldownActive      = errs.New("exchange cooldown active")
	ErrInsufficientBalance = errs.New("insufficient point balance")
	ErrCapacityExceeded    = errs.New("live coupon capacity exceeded")
	ErrSpendRejected       = errs.New("point spend was rejected")
	ErrUnknownKind         = errs.New("unknown coupon kind")
	ErrCouponNotFound      = errs.New("coupon not found")
	ErrCouponAlreadyUsed   = errs.New("coupon already used")
	ErrCouponExpired       = errs.New("coupon expired")
	ErrInvalidCode         = errs.New("invalid code format")
	ErrPersistenceFailed   = errs.New("persistence operation failed")
	ErrIssuanceFailed      = errs.New("secret code issuance failed")
)

// CooldownError reports how long the caller must wait before the next
// exchange attempt.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("exchange cooldown active for another %s", e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// LockedOutError reports an active verification lockout. No attempt was
// consumed.
type LockedOutError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("verification locked for another %s", e.Remaining.Round(time.Second))
}

// WrongCodeError reports a failed code match and the attempt budget left.
// LockedNow is set when this failure triggered the lockout; Remaining is then
// zero.
type WrongCodeError struct {
	Remaining int
	LockedNow bool
	Until     time.Time
}

func (e *WrongCodeError) Error() string {
	if e.LockedNow {
		return fmt.Sprintf("code did not match; verification locked until %s", e.Until.Format(time.RFC3339))
	}
	return fmt.Sprintf("code did not match; %d attempts remaining", e.Remaining)
}

// ChargeError reports an exchange whose points were spent but whose coupon
// could not be persisted. Refunded tells the caller whether the compensating
// refund went through; when it did not, the user-visible message must state
// that the balance was charged.
type ChargeError struct {
	Refunded bool
	cause    error
}

func (e *ChargeError) Error() string {
	if e.Refunded {
		return "exchange failed after charge; points were refunded"
	}
	return "exchange failed after charge; points were NOT refunded, contact support"
}

func (e *ChargeError) Unwrap() error { return e.cause }
