//go:build unit

package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loyalty-engine/internal/infra/ledger"
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, dir string) *ledger.PointsLedger {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Storage.DataDir = dir

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))
	l, err := ledger.NewPointsLedger(cfg.Storage, clk, logger)
	require.NoError(t, err)
	return l
}

func TestPointsLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh ledger starts at zero", func(t *testing.T) {
		l := newLedger(t, t.TempDir())
		assert.Zero(t, l.Balance())
	})

	t.Run("add then spend", func(t *testing.T) {
		l := newLedger(t, t.TempDir())

		ok, err := l.AddPoints(ctx, 60000, "campaign bonus")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = l.SpendPoints(ctx, 50000, "coupon exchange")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(10000), l.Balance())
	})

	t.Run("insufficient balance is not an error", func(t *testing.T) {
		l := newLedger(t, t.TempDir())

		ok, err := l.SpendPoints(ctx, 50000, "coupon exchange")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, l.Balance())
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		l := newLedger(t, t.TempDir())

		_, err := l.SpendPoints(ctx, 0, "noop")
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		_, err = l.AddPoints(ctx, -5, "noop")
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("balance survives a restart", func(t *testing.T) {
		dir := t.TempDir()
		l := newLedger(t, dir)
		_, err := l.AddPoints(ctx, 75000, "campaign bonus")
		require.NoError(t, err)

		reopened := newLedger(t, dir)
		assert.Equal(t, int64(75000), reopened.Balance())
	})

	t.Run("corrupted ledger file fails construction", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "points_ledger.json"), []byte("{broken"), 0o600))

		cfg := config.NewTestConfig()
		cfg.Storage.DataDir = dir
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		_, err := ledger.NewPointsLedger(cfg.Storage, clock.NewRealClock(), logger)
		assert.Error(t, err)
	})
}
