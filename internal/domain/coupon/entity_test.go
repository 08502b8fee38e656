//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, coupon.KindFreeAdmission, actual.Kind())
		assert.Equal(t, "Free Admission Pass", actual.Name())
		assert.NotEmpty(t, actual.Description())
		assert.False(t, actual.IsUsed())
		assert.Nil(t, actual.UsedAt())
		assert.Nil(t, actual.VerifiedAt())
		assert.Equal(t, actual.CreatedAt().Add(90*24*time.Hour), actual.ExpiresAt())
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := builder.NewCouponBuilder().WithKind("vip_lounge").BuildDomain()
		assert.ErrorIs(t, err, coupon.ErrUnknownKind)
	})

	t.Run("empty secret code is rejected", func(t *testing.T) {
		_, err := builder.NewCouponBuilder().WithSecretCode("").BuildDomain()
		assert.ErrorIs(t, err, coupon.ErrMissingCode)
	})
}

func TestRehydrate(t *testing.T) {
	t.Run("expiry before creation is rejected", func(t *testing.T) {
		_, err := builder.NewCouponBuilder().WithTTL(-time.Hour).BuildRehydrated()
		assert.ErrorIs(t, err, coupon.ErrInvalidLifetime)
	})

	t.Run("used state survives rehydration", func(t *testing.T) {
		usedAt := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
		c, err := builder.NewCouponBuilder().WithUsedAt(usedAt).BuildRehydrated()
		require.NoError(t, err)
		assert.True(t, c.IsUsed())
		require.NotNil(t, c.UsedAt())
		assert.Equal(t, usedAt, *c.UsedAt())
	})
}

func TestCouponUse(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("use stamps usedAt", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).BuildDomain()
		require.NoError(t, err)

		at := base.Add(time.Hour)
		require.NoError(t, c.Use(at))
		assert.True(t, c.IsUsed())
		require.NotNil(t, c.UsedAt())
		assert.Equal(t, at, *c.UsedAt())
		assert.Nil(t, c.VerifiedAt(), "in-app use does not stamp verifiedAt")
	})

	t.Run("used is terminal", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, c.Use(base.Add(time.Hour)))
		err = c.Use(base.Add(2 * time.Hour))
		assert.ErrorIs(t, err, coupon.ErrAlreadyUsed)
	})

	t.Run("expired coupon cannot be used", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).WithTTL(time.Hour).BuildDomain()
		require.NoError(t, err)

		err = c.Use(base.Add(time.Hour + time.Second))
		assert.ErrorIs(t, err, coupon.ErrExpired)
		assert.False(t, c.IsUsed())
	})

	t.Run("use exactly at expiry succeeds", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).WithTTL(time.Hour).BuildDomain()
		require.NoError(t, err)

		assert.NoError(t, c.Use(base.Add(time.Hour)))
	})

	t.Run("verification use stamps both timestamps", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).BuildDomain()
		require.NoError(t, err)

		at := base.Add(time.Hour)
		require.NoError(t, c.UseByVerification(at))
		require.NotNil(t, c.UsedAt())
		require.NotNil(t, c.VerifiedAt())
		assert.Equal(t, at, *c.VerifiedAt())
	})
}

func TestExpireInPlace(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stamps usedAt at the expiry instant", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).WithTTL(time.Hour).BuildDomain()
		require.NoError(t, err)

		require.True(t, c.ExpireInPlace())
		assert.True(t, c.IsUsed())
		require.NotNil(t, c.UsedAt())
		assert.Equal(t, base.Add(time.Hour), *c.UsedAt())
	})

	t.Run("no-op on used coupons", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithCreatedAt(base).BuildDomain()
		require.NoError(t, err)
		usedAt := base.Add(time.Minute)
		require.NoError(t, c.Use(usedAt))

		assert.False(t, c.ExpireInPlace())
		assert.Equal(t, usedAt, *c.UsedAt())
	})
}

func TestBackfillSecretCode(t *testing.T) {
	c, err := builder.NewCouponBuilder().WithSecretCode("legacy").BuildRehydrated()
	require.NoError(t, err)
	assert.False(t, c.BackfillSecretCode("NEW-COD-EXX-XXX"), "existing code is never overwritten")
	assert.Equal(t, "legacy", c.SecretCode())

	bare, err := builder.NewCouponBuilder().WithSecretCode("").BuildRehydrated()
	require.NoError(t, err)
	assert.True(t, bare.BackfillSecretCode("NEW-COD-EXX-XXX"))
	assert.Equal(t, "NEW-COD-EXX-XXX", bare.SecretCode())
}

func TestCouponClone(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	c, err := builder.NewCouponBuilder().WithCreatedAt(base).BuildDomain()
	require.NoError(t, err)

	clone := c.Clone()
	require.NoError(t, clone.Use(base.Add(time.Hour)))

	assert.False(t, c.IsUsed(), "mutating the clone must not touch the original")
	assert.Nil(t, c.UsedAt())
	assert.True(t, clone.IsUsed())
}
