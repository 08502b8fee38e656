package coupon

import (
	"sort"
	"time"

	"loyalty-engine/internal/domain/history"
)

// CodeGenerator supplies secret codes for legacy coupons missing one.
// Generation failure aborts the repair: a weaker source is never substituted.
type CodeGenerator func() (string, error)

// Repair brings a freshly loaded store up to date. Two repairs run in order:
//
//  1. backfill a secret code for any legacy coupon lacking one;
//  2. lazy expiry: every unused coupon past its expiry is marked used with
//     usedAt stamped at the expiry instant, and a synthesized expire entry
//     dated at that instant is prepended ahead of existing history before the
//     history cap is applied.
//
// Repair is idempotent: running it again on its own output changes nothing.
func (s *Store) Repair(now time.Time, gen CodeGenerator, historyCap int) (bool, error) {
	changed := false

	for _, c := range s.coupons {
		if c.secretCode != "" {
			continue
		}
		code, err := gen()
		if err != nil {
			return changed, err
		}
		c.BackfillSecretCode(code)
		changed = true
	}

	var synthesized []history.Entry
	for _, c := range s.coupons {
		if c.used || !c.IsExpiredAt(now) {
			continue
		}
		expiredAt := c.expiresAt
		c.ExpireInPlace()
		synthesized = append(synthesized, history.NewExpireEntry(c.id, c.Name(), expiredAt))
		changed = true
	}

	if len(synthesized) > 0 {
		// Keep the newest-first ordering within the synthesized block.
		sort.Slice(synthesized, func(i, j int) bool {
			return synthesized[i].Timestamp.After(synthesized[j].Timestamp)
		})
		s.history = append(synthesized, s.history...)
		s.capHistory(historyCap)
	}

	return changed, nil
}
