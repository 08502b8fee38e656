package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"loyalty-engine/internal/domain/verification"
	"loyalty-engine/internal/infra"
	"loyalty-engine/internal/pkg/config"
	"loyalty-engine/internal/pkg/errs"
)

const lockoutFileName = "verification_lockout.json"

// lockoutRecord mirrors verification.State on disk. Zero lockout_until means
// unlocked.
type lockoutRecord struct {
	Attempts     int       `json:"attempts"`
	LockoutUntil time.Time `json:"lockout_until"`
}

// LockoutFileStore keeps the verification guard state in its own small
// record, independent of the coupon store, so leaving the verification flow
// cannot reset the attempt counter.
type LockoutFileStore struct {
	path   string
	logger *slog.Logger
}

func NewLockoutFileStore(cfg config.StorageConfig, logger *slog.Logger) (*LockoutFileStore, error) {
	if err := os.MkdirAll(cfg.DataDir, dirMode); err != nil {
		return nil, errs.Wrap(err, "failed to create data dir")
	}
	return &LockoutFileStore{
		path:   filepath.Join(cfg.DataDir, lockoutFileName),
		logger: logger,
	}, nil
}

func (l *LockoutFileStore) Load(_ context.Context) (verification.State, error) {
	payload, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return verification.State{}, nil
		}
		return verification.State{}, infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to read lockout record", err)
	}
	var rec lockoutRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		// An unreadable record cannot be recovered; start from the unlocked
		// state rather than refusing all verification forever.
		l.logger.Warn("lockout record is not valid, resetting", "error", err)
		return verification.State{}, nil
	}
	return verification.State{
		FailedAttempts: rec.Attempts,
		LockedUntil:    rec.LockoutUntil,
	}, nil
}

func (l *LockoutFileStore) Save(_ context.Context, st verification.State) error {
	payload, err := json.Marshal(lockoutRecord{
		Attempts:     st.FailedAttempts,
		LockoutUntil: st.LockedUntil,
	})
	if err != nil {
		return infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to serialize lockout record", err)
	}
	if err := writeFileAtomic(l.path, payload); err != nil {
		return infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to write lockout record", err)
	}
	return nil
}
