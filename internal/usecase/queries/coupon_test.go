//go:build unit

package queries_test

import (
	"testing"
	"time"

	"loyalty-engine/internal/pkg/clock"
	"loyalty-engine/internal/usecase/queries"
	"loyalty-engine/internal/usecase/shared"
	"loyalty-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	snap *shared.StoreSnapshot
}

func (s *staticSource) Snapshot() *shared.StoreSnapshot { return s.snap }

var queryBase = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func newQueries(snap *shared.StoreSnapshot) queries.CouponQueries {
	return queries.NewCouponQueries(&staticSource{snap: snap}, clock.NewMockClock(queryBase))
}

func querySnapshot() *shared.StoreSnapshot {
	usedAt := queryBase.Add(-time.Hour)
	live := builder.NewCouponBuilder().WithCreatedAt(queryBase.Add(-24 * time.Hour)).BuildSnapshot()
	used := builder.NewCouponBuilder().WithCreatedAt(queryBase.Add(-24 * time.Hour)).WithUsedAt(usedAt).BuildSnapshot()
	expired := builder.NewCouponBuilder().WithCreatedAt(queryBase.Add(-48 * time.Hour)).WithTTL(time.Hour).BuildSnapshot()

	spent := int64(50000)
	return &shared.StoreSnapshot{
		Coupons: []shared.CouponSnapshot{live, used, expired},
		History: []shared.HistorySnapshot{
			{ID: uuid.New(), Action: "use", CouponID: used.ID, CouponName: used.Name, Timestamp: usedAt},
			{ID: uuid.New(), Action: "exchange", CouponID: live.ID, CouponName: live.Name, PointsSpent: &spent, Timestamp: queryBase.Add(-24 * time.Hour)},
		},
		TotalExchanged: 3,
		TotalUsed:      1,
	}
}

func TestAvailableCoupons(t *testing.T) {
	snap := querySnapshot()
	q := newQueries(snap)

	views, err := q.AvailableCoupons()
	require.NoError(t, err)
	require.Len(t, views, 1, "used and expired coupons are filtered out")
	assert.Equal(t, snap.Coupons[0].ID, views[0].ID)
	assert.Equal(t, snap.Coupons[0].SecretCode, views[0].SecretCode)
	assert.False(t, views[0].Used)
}

func TestAllCoupons(t *testing.T) {
	snap := querySnapshot()
	q := newQueries(snap)

	views, err := q.AllCoupons()
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.True(t, views[1].Used)
	require.NotNil(t, views[1].UsedAt)
	assert.Equal(t, *snap.Coupons[1].UsedAt, *views[1].UsedAt)
}

func TestHistory(t *testing.T) {
	snap := querySnapshot()
	q := newQueries(snap)

	views, err := q.History()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "use", views[0].Action, "snapshot order (newest first) is preserved")
	assert.Nil(t, views[0].PointsSpent)
	require.NotNil(t, views[1].PointsSpent)
	assert.Equal(t, int64(50000), *views[1].PointsSpent)
}

func TestStats(t *testing.T) {
	q := newQueries(querySnapshot())

	stats, err := q.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalExchanged)
	assert.Equal(t, int64(1), stats.TotalUsed)
	assert.Equal(t, 1, stats.LiveCoupons)
}

func TestQueriesOnEmptySnapshot(t *testing.T) {
	q := newQueries(&shared.StoreSnapshot{})

	views, err := q.AllCoupons()
	require.NoError(t, err)
	assert.Empty(t, views)

	entries, err := q.History()
	require.NoError(t, err)
	assert.Empty(t, entries)

	stats, err := q.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.LiveCoupons)
}
