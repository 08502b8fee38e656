//go:build unit

package verification_test

import (
	"testing"
	"time"

	"loyalty-engine/internal/domain/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = verification.Policy{
	MaxAttempts:     3,
	LockoutDuration: 5 * time.Minute,
}

func TestGuardCheck(t *testing.T) {
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	t.Run("zero state is unlocked", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{})
		locked, remaining, transitioned := g.Check(base)
		assert.False(t, locked)
		assert.Zero(t, remaining)
		assert.False(t, transitioned)
	})

	t.Run("active lockout reports remaining time", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{LockedUntil: base.Add(3 * time.Minute)})
		locked, remaining, transitioned := g.Check(base)
		assert.True(t, locked)
		assert.Equal(t, 3*time.Minute, remaining)
		assert.False(t, transitioned)
	})

	t.Run("deadline exactly reached unlocks", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{LockedUntil: base})
		locked, _, transitioned := g.Check(base)
		assert.False(t, locked)
		assert.True(t, transitioned, "self-unlock must be reported so it gets persisted")
		assert.Equal(t, verification.State{}, g.State())
	})

	t.Run("deadline passed unlocks and resets counter", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{FailedAttempts: 3, LockedUntil: base.Add(-time.Second)})
		locked, _, transitioned := g.Check(base)
		assert.False(t, locked)
		assert.True(t, transitioned)
		assert.Equal(t, testPolicy.MaxAttempts, g.RemainingAttempts())
	})

	t.Run("one nanosecond before deadline is still locked", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{LockedUntil: base})
		locked, remaining, _ := g.Check(base.Add(-time.Nanosecond))
		assert.True(t, locked)
		assert.Equal(t, time.Duration(time.Nanosecond), remaining)
	})
}

func TestGuardRecordFailure(t *testing.T) {
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	t.Run("locks on the final attempt", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{})

		require.False(t, g.RecordFailure(base))
		assert.Equal(t, 2, g.RemainingAttempts())

		require.False(t, g.RecordFailure(base))
		assert.Equal(t, 1, g.RemainingAttempts())

		require.True(t, g.RecordFailure(base))
		assert.Equal(t, base.Add(testPolicy.LockoutDuration), g.State().LockedUntil)
		assert.Zero(t, g.State().FailedAttempts, "counter resets when the lock engages")
	})

	t.Run("full cycle after lockout expiry", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{})
		g.RecordFailure(base)
		g.RecordFailure(base)
		g.RecordFailure(base)

		after := base.Add(testPolicy.LockoutDuration)
		locked, _, transitioned := g.Check(after)
		require.False(t, locked)
		require.True(t, transitioned)

		// A fresh budget of MaxAttempts is available again.
		assert.False(t, g.RecordFailure(after))
		assert.False(t, g.RecordFailure(after))
		assert.True(t, g.RecordFailure(after))
	})
}

func TestGuardRecordSuccess(t *testing.T) {
	t.Run("no-op on pristine state", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{})
		assert.False(t, g.RecordSuccess())
	})

	t.Run("clears accumulated failures", func(t *testing.T) {
		g := verification.NewGuard(testPolicy, verification.State{FailedAttempts: 2})
		assert.True(t, g.RecordSuccess())
		assert.Equal(t, verification.State{}, g.State())
		assert.Equal(t, testPolicy.MaxAttempts, g.RemainingAttempts())
	})
}
