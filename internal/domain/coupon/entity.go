package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyUsed     = errors.New("coupon has already been used")
	ErrExpired         = errors.New("coupon has expired")
	ErrUnknownKind     = errors.New("unknown coupon kind")
	ErrMissingCode     = errors.New("coupon has no secret code")
	ErrInvalidLifetime = errors.New("coupon expiry precedes creation")
)

// Coupon is a single-use redemption token. Once used it is terminal: no
// transition back to unused exists. Exactly one of {unused-and-unexpired,
// unused-and-expired, used} holds at any time; expiry is applied lazily on
// load, never by a background timer.
type Coupon struct {
	id         uuid.UUID
	kind       Kind
	secretCode string
	createdAt  time.Time
	expiresAt  time.Time
	usedAt     *time.Time
	verifiedAt *time.Time
	used       bool
}

func NewCoupon(kind Kind, secretCode string, now time.Time, ttl time.Duration) (*Coupon, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}
	if secretCode == "" {
		return nil, ErrMissingCode
	}
	return &Coupon{
		id:         uuid.New(),
		kind:       kind,
		secretCode: secretCode,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}, nil
}

// Rehydrate reconstructs a coupon from persisted state. Malformed records
// are rejected so the load path can drop them instead of propagating them.
func Rehydrate(
	id uuid.UUID,
	kind Kind,
	secretCode string,
	createdAt, expiresAt time.Time,
	usedAt, verifiedAt *time.Time,
	used bool,
) (*Coupon, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}
	if expiresAt.Before(createdAt) {
		return nil, ErrInvalidLifetime
	}
	return &Coupon{
		id:         id,
		kind:       kind,
		secretCode: secretCode,
		createdAt:  createdAt,
		expiresAt:  expiresAt,
		usedAt:     usedAt,
		verifiedAt: verifiedAt,
		used:       used,
	}, nil
}

func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return t.After(c.expiresAt)
}

func (c *Coupon) IsAvailableAt(t time.Time) bool {
	return !c.used && !c.IsExpiredAt(t)
}

// Use marks the coupon used from the in-app flow.
func (c *Coupon) Use(at time.Time) error {
	if c.used {
		return ErrAlreadyUsed
	}
	if c.IsExpiredAt(at) {
		return ErrExpired
	}
	c.used = true
	c.usedAt = &at
	return nil
}

// UseByVerification marks the coupon used via secret-code verification and
// stamps verifiedAt in addition to usedAt.
func (c *Coupon) UseByVerification(at time.Time) error {
	if err := c.Use(at); err != nil {
		return err
	}
	c.verifiedAt = &at
	return nil
}

// ExpireInPlace applies lazy expiry: the coupon becomes used with
// usedAt stamped at the expiry instant. No-op on already-used coupons.
func (c *Coupon) ExpireInPlace() bool {
	if c.used {
		return false
	}
	c.used = true
	expiredAt := c.expiresAt
	c.usedAt = &expiredAt
	return true
}

// BackfillSecretCode assigns a code to a legacy coupon that has none.
// Returns false when the coupon already carries a code.
func (c *Coupon) BackfillSecretCode(code string) bool {
	if c.secretCode != "" {
		return false
	}
	c.secretCode = code
	return true
}

func (c *Coupon) Clone() *Coupon {
	clone := *c
	if c.usedAt != nil {
		usedAt := *c.usedAt
		clone.usedAt = &usedAt
	}
	if c.verifiedAt != nil {
		verifiedAt := *c.verifiedAt
		clone.verifiedAt = &verifiedAt
	}
	return &clone
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) Kind() Kind             { return c.kind }
func (c *Coupon) Name() string           { return c.kind.Info().Name }
func (c *Coupon) Description() string    { return c.kind.Info().Description }
func (c *Coupon) SecretCode() string     { return c.secretCode }
func (c *Coupon) CreatedAt() time.Time   { return c.createdAt }
func (c *Coupon) ExpiresAt() time.Time   { return c.expiresAt }
func (c *Coupon) UsedAt() *time.Time     { return c.usedAt }
func (c *Coupon) VerifiedAt() *time.Time { return c.verifiedAt }
func (c *Coupon) IsUsed() bool           { return c.used }
