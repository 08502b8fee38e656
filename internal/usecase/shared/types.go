package shared

import (
	"time"

	"loyalty-engine/internal/domain/coupon"
	"loyalty-engine/internal/domain/history"

	"github.com/google/uuid"
)

// Snapshots are the immutable read-side projection of the coupon store.
// The manager publishes a fresh snapshot only after persistence succeeds;
// queries never observe unpersisted state.

type CouponSnapshot struct {
	ID          uuid.UUID
	Kind        string
	Name        string
	Description string
	SecretCode  string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	UsedAt      *time.Time
	VerifiedAt  *time.Time
	Used        bool
}

type HistorySnapshot struct {
	ID          uuid.UUID
	Action      string
	CouponID    uuid.UUID
	CouponName  string
	PointsSpent *int64
	Timestamp   time.Time
}

type StoreSnapshot struct {
	Coupons        []CouponSnapshot
	History        []HistorySnapshot
	TotalExchanged int64
	TotalUsed      int64
}

func SnapshotFromCoupon(c *coupon.Coupon) CouponSnapshot {
	return CouponSnapshot{
		ID:          c.ID(),
		Kind:        c.Kind().String(),
		Name:        c.Name(),
		Description: c.Description(),
		SecretCode:  c.SecretCode(),
		CreatedAt:   c.CreatedAt(),
		ExpiresAt:   c.ExpiresAt(),
		UsedAt:      c.UsedAt(),
		VerifiedAt:  c.VerifiedAt(),
		Used:        c.IsUsed(),
	}
}

func SnapshotFromEntry(e history.Entry) HistorySnapshot {
	return HistorySnapshot{
		ID:          e.ID,
		Action:      string(e.Action),
		CouponID:    e.CouponID,
		CouponName:  e.CouponName,
		PointsSpent: e.PointsSpent,
		Timestamp:   e.Timestamp,
	}
}

func SnapshotFromStore(s *coupon.Store) *StoreSnapshot {
	snap := &StoreSnapshot{
		Coupons:        make([]CouponSnapshot, 0, len(s.Coupons())),
		History:        make([]HistorySnapshot, 0, len(s.History())),
		TotalExchanged: s.TotalExchanged(),
		TotalUsed:      s.TotalUsed(),
	}
	for _, c := range s.Coupons() {
		snap.Coupons = append(snap.Coupons, SnapshotFromCoupon(c))
	}
	for _, e := range s.History() {
		snap.History = append(snap.History, SnapshotFromEntry(e))
	}
	return snap
}
