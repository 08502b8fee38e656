package storage

import (
	"log/slog"
	"time"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/domain/history"

	"github.com/google/uuid"
)

const recordVersion = 1

// storeRecord is the plaintext shape of the encrypted primary blob.
type storeRecord struct {
	Version        int             `json:"version"`
	Coupons        []couponRecord  `json:"coupons"`
	History        []historyRecord `json:"history"`
	TotalExchanged int64           `json:"total_exchanged"`
	TotalUsed      int64           `json:"total_used"`
}

type couponRecord struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	SecretCode string     `json:"secret_code"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Used       bool       `json:"used"`
}

type historyRecord struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	CouponID    uuid.UUID `json:"coupon_id"`
	CouponName  string    `json:"coupon_name"`
	PointsSpent *int64    `json:"points_spent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// backupRecord is the size-bounded secondary record. It carries either a
// trimmed list of unused coupons or, when even that would not fit the size
// ceiling, counts-only metadata.
type backupRecord struct {
	Coupons        []backupCoupon `json:"coupons,omitempty"`
	CouponCount    int            `json:"coupon_count"`
	TotalExchanged int64          `json:"total_exchanged"`
	TotalUsed      int64          `json:"total_used"`
}

type backupCoupon struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	SecretCode string    `json:"secret_code"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
}

func recordFromStore(s *coupon.Store) storeRecord {
	rec := storeRecord{
		Version:        recordVersion,
		Coupons:        make([]couponRecord, 0, len(s.Coupons())),
		History:        make([]historyRecord, 0, len(s.History())),
		TotalExchanged: s.TotalExchanged(),
		TotalUsed:      s.TotalUsed(),
	}
	for _, c := range s.Coupons() {
		rec.Coupons = append(rec.Coupons, couponRecord{
			ID:         c.ID(),
			Kind:       c.Kind().String(),
			SecretCode: c.SecretCode(),
			CreatedAt:  c.CreatedAt(),
			ExpiresAt:  c.ExpiresAt(),
			UsedAt:     c.UsedAt(),
			VerifiedAt: c.VerifiedAt(),
			Used:       c.IsUsed(),
		})
	}
	for _, e := range s.History() {
		rec.History = append(rec.History, historyRecord{
			ID:          e.ID,
			Action:      string(e.Action),
			CouponID:    e.CouponID,
			CouponName:  e.CouponName,
			PointsSpent: e.PointsSpent,
			Timestamp:   e.Timestamp,
		})
	}
	return rec
}

// storeFromRecord rehydrates the aggregate, dropping malformed entries
// instead of failing the whole load.
func storeFromRecord(rec storeRecord) *coupon.Store {
	coupons := make([]*coupon.Coupon, 0, len(rec.Coupons))
	for _, cr := range rec.Coupons {
		c, err := coupon.Rehydrate(
			cr.ID,
			coupon.Kind(cr.Kind),
			cr.SecretCode,
			cr.CreatedAt,
			cr.ExpiresAt,
			cr.UsedAt,
			cr.VerifiedAt,
			cr.Used,
		)
		if err != nil {
			slog.Warn("dropping malformed coupon record", "id", cr.ID, "error", err)
			continue
		}
		coupons = append(coupons, c)
	}

	entries := make([]history.Entry, 0, len(rec.History))
	for _, hr := range rec.History {
		action := history.Action(hr.Action)
		switch action {
		case history.ActionExchange, history.ActionUse, history.ActionExpire:
		default:
			slog.Warn("dropping malformed history record", "id", hr.ID, "action", hr.Action)
			continue
		}
		entries = append(entries, history.Entry{
			ID:          hr.ID,
			Action:      action,
			CouponID:    hr.CouponID,
			CouponName:  hr.CouponName,
			PointsSpent: hr.PointsSpent,
			Timestamp:   hr.Timestamp,
		})
	}

	return coupon.RehydrateStore(coupons, entries, rec.TotalExchanged, rec.TotalUsed)
}

func storeFromBackup(rec backupRecord) *coupon.Store {
	coupons := make([]*coupon.Coupon, 0, len(rec.Coupons))
	for _, bc := range rec.Coupons {
		c, err := coupon.Rehydrate(
			bc.ID,
			coupon.Kind(bc.Kind),
			bc.SecretCode,
			bc.CreatedAt,
			bc.ExpiresAt,
			nil,
			nil,
			bc.Used,
		)
		if err != nil {
			slog.Warn("dropping malformed backup coupon", "id", bc.ID, "error", err)
			continue
		}
		coupons = append(coupons, c)
	}
	// History is not part of the backup; totals survive via metadata.
	return coupon.RehydrateStore(coupons, nil, rec.TotalExchanged, rec.TotalUsed)
}
