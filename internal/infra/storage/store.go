package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/infra"
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/pkg/config"
	"loyalty-engine/internal/pkg/errs"
	"loyalty-engine/internal/pkg/secretcode"
)

const (
	primaryFileName = "coupon_store.bin"
	backupFileName  = "coupon_store_backup.json"
	storeKeyLabel   = "coupon-store-v1"

	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore is the dual-location persistence layer: an encrypted primary
// blob plus a size-bounded plaintext backup used for reconstruction when the
// primary is absent or invalid.
type FileStore struct {
	dir     string
	sealer  *sealer
	gen     coupon.CodeGenerator
	clock   clock.Clock
	storage config.StorageConfig
	engine  config.EngineConfig
	logger  *slog.Logger
}

func NewFileStore(
	storageCfg config.StorageConfig,
	engineCfg config.EngineConfig,
	clk clock.Clock,
	logger *slog.Logger,
) (*FileStore, error) {
	masterKey, err := storageCfg.DecodeMasterKey()
	if err != nil {
		return nil, errs.Wrap(err, "invalid master key")
	}
	s, err := newSealer(masterKey, storeKeyLabel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(storageCfg.DataDir, dirMode); err != nil {
		return nil, errs.Wrap(err, "failed to create data dir")
	}
	return &FileStore{
		dir:     storageCfg.DataDir,
		sealer:  s,
		gen:     secretcode.Generate,
		clock:   clk,
		storage: storageCfg,
		engine:  engineCfg,
		logger:  logger,
	}, nil
}

func (f *FileStore) primaryPath() string { return filepath.Join(f.dir, primaryFileName) }
func (f *FileStore) backupPath() string  { return filepath.Join(f.dir, backupFileName) }

// Save serializes, seals and writes the primary record, refreshes the backup,
// then re-reads the primary as a write-verification step. A verification
// mismatch is reported as failure: the caller must not assume durability.
func (f *FileStore) Save(ctx context.Context, s *coupon.Store) error {
	if err := ctx.Err(); err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindIOFailure, "save aborted before start", err)
	}

	plaintext, err := json.Marshal(recordFromStore(s))
	if err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindIOFailure, "failed to serialize store", err)
	}
	blob, err := f.sealer.Seal(plaintext)
	if err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindSealFailure, "failed to seal store", err)
	}
	if err := writeFileAtomic(f.primaryPath(), blob); err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindIOFailure, "failed to write primary store", err)
	}

	if err := f.writeBackup(s); err != nil {
		// The primary is already durable; a stale backup only narrows the
		// recovery surface.
		f.logger.Warn("failed to refresh backup record", "error", err)
	}

	return f.verifyWrite(plaintext)
}

func (f *FileStore) verifyWrite(expected []byte) error {
	blob, err := os.ReadFile(f.primaryPath())
	if err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindVerifyFailed, "write verification read failed", err)
	}
	actual, err := f.sealer.Open(blob)
	if err != nil {
		return infra.WrapStorageErr(f.logger, infra.KindVerifyFailed, "write verification unseal failed", err)
	}
	if !bytes.Equal(expected, actual) {
		return infra.WrapStorageErr(f.logger, infra.KindVerifyFailed, "write verification mismatch", nil)
	}
	return nil
}

// writeBackup stores a trimmed list of unused coupons; when even the trimmed
// payload would exceed the size ceiling it degrades to counts-only metadata.
func (f *FileStore) writeBackup(s *coupon.Store) error {
	rec := backupRecord{
		CouponCount:    len(s.Coupons()),
		TotalExchanged: s.TotalExchanged(),
		TotalUsed:      s.TotalUsed(),
	}
	for _, c := range s.Coupons() {
		if c.IsUsed() {
			continue
		}
		if len(rec.Coupons) >= f.storage.BackupMaxItems {
			break
		}
		rec.Coupons = append(rec.Coupons, backupCoupon{
			ID:         c.ID(),
			Kind:       c.Kind().String(),
			Name:       c.Name(),
			SecretCode: c.SecretCode(),
			CreatedAt:  c.CreatedAt(),
			ExpiresAt:  c.ExpiresAt(),
			Used:       c.IsUsed(),
		})
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if len(payload) > f.storage.BackupSizeLimit {
		rec.Coupons = nil
		payload, err = json.Marshal(rec)
		if err != nil {
			return err
		}
	}
	return writeFileAtomic(f.backupPath(), payload)
}

// Load reads the primary record, falling back to the backup when the primary
// is absent or invalid, and to a fresh empty store when both are unusable.
// Decryption failure invalidates the record outright; the raw bytes are never
// interpreted as plaintext data. The two load-time repairs (secret-code
// backfill, lazy expiry) run on whatever was recovered.
func (f *FileStore) Load(ctx context.Context) (*coupon.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapStorageErr(f.logger, infra.KindIOFailure, "load aborted before start", err)
	}

	s := f.loadPrimary()
	if s == nil {
		s = f.loadBackup()
	}
	if s == nil {
		s = coupon.NewStore()
	}

	if _, err := s.Repair(f.clock.Now(), f.gen, f.engine.HistoryCap); err != nil {
		return nil, errs.Wrap(err, "store repair failed")
	}
	return s, nil
}

func (f *FileStore) loadPrimary() *coupon.Store {
	blob, err := os.ReadFile(f.primaryPath())
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("failed to read primary store", "error", err)
		}
		return nil
	}
	plaintext, err := f.sealer.Open(blob)
	if err != nil {
		f.logger.Warn("primary store failed authentication, discarding", "error", err)
		return nil
	}
	var rec storeRecord
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		f.logger.Warn("primary store is not a valid record, discarding", "error", err)
		return nil
	}
	if !f.sane(rec) {
		f.logger.Warn("primary store exceeds sane size bounds, discarding",
			"coupons", len(rec.Coupons), "history", len(rec.History))
		return nil
	}
	return storeFromRecord(rec)
}

// sane rejects records whose array sizes exceed sane multiples of the
// configured caps, an anti-corruption guard against runaway or forged blobs.
func (f *FileStore) sane(rec storeRecord) bool {
	return len(rec.Coupons) <= f.engine.CouponCap*2 &&
		len(rec.History) <= f.engine.HistoryCap*2
}

func (f *FileStore) loadBackup() *coupon.Store {
	payload, err := os.ReadFile(f.backupPath())
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("failed to read backup record", "error", err)
		}
		return nil
	}
	var rec backupRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		f.logger.Warn("backup record is not valid, discarding", "error", err)
		return nil
	}
	if len(rec.Coupons) > f.storage.BackupMaxItems {
		f.logger.Warn("backup record exceeds item limit, discarding", "coupons", len(rec.Coupons))
		return nil
	}
	f.logger.Info("reconstructed coupon store from backup record", "coupons", len(rec.Coupons))
	return storeFromBackup(rec)
}

// writeFileAtomic writes via a temp file in the same directory and renames
// it over the target.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
