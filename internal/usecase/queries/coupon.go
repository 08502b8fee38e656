package queries

import (
	"time"

	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Read models (DTO for read side)
type CouponView struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SecretCode  string     `json:"secret_code"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	Used        bool       `json:"used"`
}

type HistoryView struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	CouponID    uuid.UUID `json:"coupon_id"`
	CouponName  string    `json:"coupon_name"`
	PointsSpent *int64    `json:"points_spent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type StatsView struct {
	TotalExchanged int64 `json:"total_exchanged"`
	TotalUsed      int64 `json:"total_used"`
	LiveCoupons    int   `json:"live_coupons"`
}

// SnapshotSource exposes the published store snapshot. Readers only ever see
// state that has already been persisted.
type SnapshotSource interface {
	Snapshot() *shared.StoreSnapshot
}

type CouponQueries interface {
	AvailableCoupons() ([]CouponView, error)
	AllCoupons() ([]CouponView, error)
	History() ([]HistoryView, error)
	Stats() (*StatsView, error)
}

type couponQueriesImpl struct {
	source SnapshotSource
	clock  clock.Clock
}

func NewCouponQueries(source SnapshotSource, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{source: source, clock: clk}
}

// AvailableCoupons projects the unused-and-unexpired subset.
func (q *couponQueriesImpl) AvailableCoupons() ([]CouponView, error) {
	snap := q.source.Snapshot()
	now := q.clock.Now()

	views := make([]CouponView, 0, len(snap.Coupons))
	for i := range snap.Coupons {
		c := &snap.Coupons[i]
		if c.Used || now.After(c.ExpiresAt) {
			continue
		}
		view, err := couponViewFrom(c)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (q *couponQueriesImpl) AllCoupons() ([]CouponView, error) {
	snap := q.source.Snapshot()

	views := make([]CouponView, 0, len(snap.Coupons))
	for i := range snap.Coupons {
		view, err := couponViewFrom(&snap.Coupons[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (q *couponQueriesImpl) History() ([]HistoryView, error) {
	snap := q.source.Snapshot()

	views := make([]HistoryView, 0, len(snap.History))
	for i := range snap.History {
		var view HistoryView
		if err := copier.Copy(&view, &snap.History[i]); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (q *couponQueriesImpl) Stats() (*StatsView, error) {
	snap := q.source.Snapshot()
	now := q.clock.Now()

	live := 0
	for i := range snap.Coupons {
		c := &snap.Coupons[i]
		if !c.Used && !now.After(c.ExpiresAt) {
			live++
		}
	}
	return &StatsView{
		TotalExchanged: snap.TotalExchanged,
		TotalUsed:      snap.TotalUsed,
		LiveCoupons:    live,
	}, nil
}

func couponViewFrom(snap *shared.CouponSnapshot) (CouponView, error) {
	var view CouponView
	if err := copier.Copy(&view, snap); err != nil {
		return CouponView{}, err
	}
	return view, nil
}
