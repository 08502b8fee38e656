package coupon

import (
	"time"

	"loyalty-engine/internal/domain/history"

	"github.com/google/uuid"
)

// Store is the aggregate root holding every coupon a device has ever
// exchanged plus the capped audit trail. One Store exists per device; all
// mutation goes through the lifecycle manager.
type Store struct {
	coupons        []*Coupon
	history        []history.Entry
	totalExchanged int64
	totalUsed      int64
}

func NewStore() *Store {
	return &Store{}
}

func RehydrateStore(coupons []*Coupon, entries []history.Entry, totalExchanged, totalUsed int64) *Store {
	return &Store{
		coupons:        coupons,
		history:        entries,
		totalExchanged: totalExchanged,
		totalUsed:      totalUsed,
	}
}

func (s *Store) Coupons() []*Coupon       { return s.coupons }
func (s *Store) History() []history.Entry { return s.history }
func (s *Store) TotalExchanged() int64    { return s.totalExchanged }
func (s *Store) TotalUsed() int64         { return s.totalUsed }

func (s *Store) FindByID(id uuid.UUID) *Coupon {
	for _, c := range s.coupons {
		if c.id == id {
			return c
		}
	}
	return nil
}

// LiveCount counts unused-and-unexpired coupons.
func (s *Store) LiveCount(at time.Time) int {
	n := 0
	for _, c := range s.coupons {
		if c.IsAvailableAt(at) {
			n++
		}
	}
	return n
}

// Add appends a coupon and trims the list back to cap. Used coupons are
// evicted before live ones; live coupons never exceed the live cap enforced
// by the manager, which is below the storage cap.
func (s *Store) Add(c *Coupon, cap int) {
	s.coupons = append(s.coupons, c)
	s.trimCoupons(cap)
}

func (s *Store) trimCoupons(cap int) {
	if cap <= 0 {
		return
	}
	for len(s.coupons) > cap {
		evicted := false
		for i, c := range s.coupons {
			if c.used {
				s.coupons = append(s.coupons[:i], s.coupons[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			s.coupons = s.coupons[1:]
		}
	}
}

// RecordHistory prepends an entry (the trail is newest-first) and drops the
// oldest entries past cap.
func (s *Store) RecordHistory(e history.Entry, cap int) {
	s.history = append([]history.Entry{e}, s.history...)
	s.capHistory(cap)
}

func (s *Store) capHistory(cap int) {
	if cap > 0 && len(s.history) > cap {
		s.history = s.history[:cap]
	}
}

func (s *Store) IncExchanged() { s.totalExchanged++ }
func (s *Store) IncUsed()      { s.totalUsed++ }

func (s *Store) Clone() *Store {
	coupons := make([]*Coupon, len(s.coupons))
	for i, c := range s.coupons {
		coupons[i] = c.Clone()
	}
	entries := make([]history.Entry, len(s.history))
	copy(entries, s.history)
	return &Store{
		coupons:        coupons,
		history:        entries,
		totalExchanged: s.totalExchanged,
		totalUsed:      s.totalUsed,
	}
}
