package history

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionExchange Action = "exchange"
	ActionUse      Action = "use"
	ActionExpire   Action = "expire"
)

// Entry is a single immutable line of the audit trail. The trail is kept
// newest-first and capped; the oldest entries are dropped first.
type Entry struct {
	ID          uuid.UUID
	Action      Action
	CouponID    uuid.UUID
	CouponName  string
	PointsSpent *int64
	Timestamp   time.Time
}

func NewExchangeEntry(couponID uuid.UUID, couponName string, pointsSpent int64, at time.Time) Entry {
	return Entry{
		ID:          uuid.New(),
		Action:      ActionExchange,
		CouponID:    couponID,
		CouponName:  couponName,
		PointsSpent: &pointsSpent,
		Timestamp:   at,
	}
}

func NewUseEntry(couponID uuid.UUID, couponName string, at time.Time) Entry {
	return Entry{
		ID:         uuid.New(),
		Action:     ActionUse,
		CouponID:   couponID,
		CouponName: couponName,
		Timestamp:  at,
	}
}

// NewExpireEntry is dated at the coupon's expiry instant, not at the time the
// expiry was noticed during load.
func NewExpireEntry(couponID uuid.UUID, couponName string, expiredAt time.Time) Entry {
	return Entry{
		ID:         uuid.New(),
		Action:     ActionExpire,
		CouponID:   couponID,
		CouponName: couponName,
		Timestamp:  expiredAt,
	}
}
