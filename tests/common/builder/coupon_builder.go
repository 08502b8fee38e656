//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID         uuid.UUID
	Kind       domcoupon.Kind
	SecretCode string
	CreatedAt  time.Time
	TTL        time.Duration
	UsedAt     *time.Time
	VerifiedAt *time.Time
	Used       bool
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:         uuid.New(),
		Kind:       domcoupon.KindFreeAdmission,
		SecretCode: "ABC-DEF-GHJ-KLM",
		CreatedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		TTL:        90 * 24 * time.Hour,
	}
}

func (b *CouponBuilder) WithKind(k domcoupon.Kind) *CouponBuilder {
	b.Kind = k
	return b
}

func (b *CouponBuilder) WithSecretCode(code string) *CouponBuilder {
	b.SecretCode = code
	return b
}

func (b *CouponBuilder) WithCreatedAt(t time.Time) *CouponBuilder {
	b.CreatedAt = t
	return b
}

func (b *CouponBuilder) WithTTL(ttl time.Duration) *CouponBuilder {
	b.TTL = ttl
	return b
}

func (b *CouponBuilder) WithUsedAt(t time.Time) *CouponBuilder {
	b.Used = true
	b.UsedAt = &t
	return b
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.NewCoupon(b.Kind, b.SecretCode, b.CreatedAt, b.TTL)
}

// BuildRehydrated reconstructs a coupon in an arbitrary persisted state,
// bypassing the creation-time validations that BuildDomain runs through.
func (b *CouponBuilder) BuildRehydrated() (*domcoupon.Coupon, error) {
	return domcoupon.Rehydrate(
		b.ID,
		b.Kind,
		b.SecretCode,
		b.CreatedAt,
		b.CreatedAt.Add(b.TTL),
		b.UsedAt,
		b.VerifiedAt,
		b.Used,
	)
}

func (b *CouponBuilder) BuildSnapshot() shared.CouponSnapshot {
	return shared.CouponSnapshot{
		ID:          b.ID,
		Kind:        string(b.Kind),
		Name:        b.Kind.Info().Name,
		Description: b.Kind.Info().Description,
		SecretCode:  b.SecretCode,
		CreatedAt:   b.CreatedAt,
		ExpiresAt:   b.CreatedAt.Add(b.TTL),
		UsedAt:      b.UsedAt,
		VerifiedAt:  b.VerifiedAt,
		Used:        b.Used,
	}
}
