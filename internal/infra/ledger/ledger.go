// Package ledger is the local points-balance collaborator of the coupon
// engine. The engine only ever sees the LedgerService capability; the
// balance itself belongs to this package.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"loyalty-engine/internal/infra"
	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/pkg/config"
	"loyalty-engine/internal/pkg/errs"
)

const ledgerFileName = "points_ledger.json"

var ErrInvalidAmount = errs.New("ledger amount must be positive")

type ledgerRecord struct {
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PointsLedger struct {
	mu      sync.Mutex
	path    string
	balance int64
	clock   clock.Clock
	logger  *slog.Logger
}

func NewPointsLedger(cfg config.StorageConfig, clk clock.Clock, logger *slog.Logger) (*PointsLedger, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errs.Wrap(err, "failed to create data dir")
	}
	l := &PointsLedger{
		path:   filepath.Join(cfg.DataDir, ledgerFileName),
		clock:  clk,
		logger: logger,
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *PointsLedger) load() error {
	payload, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to read points ledger", err)
	}
	var rec ledgerRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return infra.WrapStorageErr(l.logger, infra.KindCorrupted, "points ledger is not valid", err)
	}
	l.balance = rec.Balance
	return nil
}

func (l *PointsLedger) persist() error {
	payload, err := json.Marshal(ledgerRecord{
		Balance:   l.balance,
		UpdatedAt: l.clock.Now(),
	})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ledgerFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, l.path)
}

func (l *PointsLedger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// SpendPoints deducts amount when the balance covers it. The deduction is
// persisted before it is acknowledged; false with a nil error means the
// balance was insufficient.
func (l *PointsLedger) SpendPoints(_ context.Context, amount int64, reason string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance < amount {
		return false, nil
	}
	prev := l.balance
	l.balance -= amount
	if err := l.persist(); err != nil {
		l.balance = prev
		return false, infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to persist point spend", err)
	}
	l.logger.Info("points spent", "amount", amount, "reason", reason, "balance", l.balance)
	return true, nil
}

func (l *PointsLedger) AddPoints(_ context.Context, amount int64, reason string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.balance
	l.balance += amount
	if err := l.persist(); err != nil {
		l.balance = prev
		return false, infra.WrapStorageErr(l.logger, infra.KindIOFailure, "failed to persist point credit", err)
	}
	l.logger.Info("points added", "amount", amount, "reason", reason, "balance", l.balance)
	return true, nil
}
