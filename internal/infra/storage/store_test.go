//go:build unit

package storage_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/domain/history"
	"loyalty-engine/internal/infra/storage"
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/pkg/config"
	"loyalty-engine/internal/usecase/shared"
	"loyalty-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeBase = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFileStore(t *testing.T, mutate func(*config.Config)) (*storage.FileStore, string) {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.Storage.DataDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}

	fs, err := storage.NewFileStore(cfg.Storage, cfg.Engine, clock.NewMockClock(storeBase), testLogger())
	require.NoError(t, err)
	return fs, cfg.Storage.DataDir
}

func sampleStore(t *testing.T) *coupon.Store {
	t.Helper()

	live, err := builder.NewCouponBuilder().WithCreatedAt(storeBase).WithSecretCode("ABC-DEF-GHJ-KLM").BuildDomain()
	require.NoError(t, err)
	used, err := builder.NewCouponBuilder().WithCreatedAt(storeBase).WithSecretCode("NPQ-RST-UVW-XYZ").BuildDomain()
	require.NoError(t, err)
	require.NoError(t, used.Use(storeBase.Add(time.Minute)))

	entries := []history.Entry{
		history.NewUseEntry(used.ID(), used.Name(), storeBase.Add(time.Minute)),
		history.NewExchangeEntry(live.ID(), live.Name(), 50000, storeBase),
	}
	return coupon.RehydrateStore([]*coupon.Coupon{live, used}, entries, 2, 1)
}

func corruptFile(t *testing.T, path string) {
	t.Helper()
	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	blob[len(blob)/2] ^= 0xff
	require.NoError(t, os.WriteFile(path, blob, 0o600))
}

func TestFileStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFileStore(t, nil)
	original := sampleStore(t)

	require.NoError(t, fs.Save(ctx, original))
	loaded, err := fs.Load(ctx)
	require.NoError(t, err)

	diff := cmp.Diff(shared.SnapshotFromStore(original), shared.SnapshotFromStore(loaded))
	assert.Empty(t, diff)
}

func TestFileStorePrimaryIsSealed(t *testing.T) {
	ctx := context.Background()
	fs, dir := newTestFileStore(t, nil)
	require.NoError(t, fs.Save(ctx, sampleStore(t)))

	blob, err := os.ReadFile(filepath.Join(dir, "coupon_store.bin"))
	require.NoError(t, err)

	assert.False(t, json.Valid(blob), "primary record must not be readable as plaintext")
	assert.NotContains(t, string(blob), "ABCDEFGHJKLM")
	assert.NotContains(t, string(blob), "secret_code")
}

func TestFileStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing on disk yields a fresh empty store", func(t *testing.T) {
		fs, _ := newTestFileStore(t, nil)
		s, err := fs.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, s.Coupons())
		assert.Empty(t, s.History())
		assert.Zero(t, s.TotalExchanged())
	})

	t.Run("tampered primary falls back to the backup", func(t *testing.T) {
		fs, dir := newTestFileStore(t, nil)
		require.NoError(t, fs.Save(ctx, sampleStore(t)))
		corruptFile(t, filepath.Join(dir, "coupon_store.bin"))

		s, err := fs.Load(ctx)
		require.NoError(t, err)

		// The backup carries unused coupons and totals, but no history.
		require.Len(t, s.Coupons(), 1)
		assert.Equal(t, "ABCDEFGHJKLM", strings.ReplaceAll(s.Coupons()[0].SecretCode(), "-", ""))
		assert.Empty(t, s.History())
		assert.Equal(t, int64(2), s.TotalExchanged())
		assert.Equal(t, int64(1), s.TotalUsed())
	})

	t.Run("plaintext record at the primary path is never trusted", func(t *testing.T) {
		fs, dir := newTestFileStore(t, nil)
		forged := `{"version":1,"coupons":[],"history":[],"total_exchanged":9999,"total_used":0}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "coupon_store.bin"), []byte(forged), 0o600))

		s, err := fs.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, s.TotalExchanged(), "unauthenticated bytes must not be interpreted as data")
	})

	t.Run("both records unusable yields a fresh store", func(t *testing.T) {
		fs, dir := newTestFileStore(t, nil)
		require.NoError(t, fs.Save(ctx, sampleStore(t)))
		corruptFile(t, filepath.Join(dir, "coupon_store.bin"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "coupon_store_backup.json"), []byte("{not json"), 0o600))

		s, err := fs.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, s.Coupons())
		assert.Zero(t, s.TotalExchanged())
	})

	t.Run("record exceeding sane bounds is discarded", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Storage.DataDir = t.TempDir()

		writer, err := storage.NewFileStore(cfg.Storage, cfg.Engine, clock.NewMockClock(storeBase), testLogger())
		require.NoError(t, err)

		coupons := make([]*coupon.Coupon, 0, 5)
		for range 5 {
			c, err := builder.NewCouponBuilder().WithCreatedAt(storeBase).BuildDomain()
			require.NoError(t, err)
			coupons = append(coupons, c)
		}
		oversized := coupon.RehydrateStore(coupons, []history.Entry{
			history.NewUseEntry(uuid.New(), "old use", storeBase),
		}, 5, 0)
		require.NoError(t, writer.Save(ctx, oversized))

		// A reader whose cap is far below the written record treats the
		// primary as corrupt and reconstructs from the backup instead.
		strictCfg := cfg
		strictCfg.Engine.CouponCap = 2
		reader, err := storage.NewFileStore(strictCfg.Storage, strictCfg.Engine, clock.NewMockClock(storeBase), testLogger())
		require.NoError(t, err)

		s, err := reader.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, s.Coupons(), 5)
		assert.Empty(t, s.History(), "history only exists in the primary record")
	})

	t.Run("expired coupons are repaired on load", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Storage.DataDir = t.TempDir()
		clk := clock.NewMockClock(storeBase)

		fs, err := storage.NewFileStore(cfg.Storage, cfg.Engine, clk, testLogger())
		require.NoError(t, err)

		shortLived, err := builder.NewCouponBuilder().WithCreatedAt(storeBase).WithTTL(time.Hour).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, fs.Save(ctx, coupon.RehydrateStore([]*coupon.Coupon{shortLived}, nil, 1, 0)))

		clk.Set(storeBase.Add(2 * time.Hour))
		s, err := fs.Load(ctx)
		require.NoError(t, err)

		loaded := s.FindByID(shortLived.ID())
		require.NotNil(t, loaded)
		assert.True(t, loaded.IsUsed())
		assert.Equal(t, storeBase.Add(time.Hour), *loaded.UsedAt())
		require.Len(t, s.History(), 1)
		assert.Equal(t, history.ActionExpire, s.History()[0].Action)
		assert.Equal(t, storeBase.Add(time.Hour), s.History()[0].Timestamp)
	})
}

func TestFileStoreBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("backup keeps at most the configured item count", func(t *testing.T) {
		fs, dir := newTestFileStore(t, func(cfg *config.Config) {
			cfg.Storage.BackupMaxItems = 3
			cfg.Storage.BackupSizeLimit = 4096
		})

		coupons := make([]*coupon.Coupon, 0, 10)
		for range 10 {
			c, err := builder.NewCouponBuilder().WithCreatedAt(storeBase).BuildDomain()
			require.NoError(t, err)
			coupons = append(coupons, c)
		}
		require.NoError(t, fs.Save(ctx, coupon.RehydrateStore(coupons, nil, 10, 0)))

		payload, err := os.ReadFile(filepath.Join(dir, "coupon_store_backup.json"))
		require.NoError(t, err)
		var rec struct {
			Coupons     []json.RawMessage `json:"coupons"`
			CouponCount int               `json:"coupon_count"`
		}
		require.NoError(t, json.Unmarshal(payload, &rec))
		assert.Len(t, rec.Coupons, 3)
		assert.Equal(t, 10, rec.CouponCount)
	})

	t.Run("degrades to counts-only when over the size ceiling", func(t *testing.T) {
		fs, dir := newTestFileStore(t, func(cfg *config.Config) {
			cfg.Storage.BackupSizeLimit = 200
		})
		require.NoError(t, fs.Save(ctx, sampleStore(t)))

		payload, err := os.ReadFile(filepath.Join(dir, "coupon_store_backup.json"))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(payload), 200)

		var rec struct {
			Coupons        []json.RawMessage `json:"coupons"`
			CouponCount    int               `json:"coupon_count"`
			TotalExchanged int64             `json:"total_exchanged"`
		}
		require.NoError(t, json.Unmarshal(payload, &rec))
		assert.Empty(t, rec.Coupons)
		assert.Equal(t, 2, rec.CouponCount)
		assert.Equal(t, int64(2), rec.TotalExchanged)
	})

	t.Run("used coupons never enter the backup", func(t *testing.T) {
		fs, dir := newTestFileStore(t, nil)
		require.NoError(t, fs.Save(ctx, sampleStore(t)))

		payload, err := os.ReadFile(filepath.Join(dir, "coupon_store_backup.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(payload), "NPQ-RST-UVW-XYZ")
	})
}

func TestFileStoreSaveContext(t *testing.T) {
	fs, dir := newTestFileStore(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fs.Save(ctx, sampleStore(t))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "coupon_store.bin"))
	assert.True(t, os.IsNotExist(statErr), "a cancelled save must not touch the disk")
}
