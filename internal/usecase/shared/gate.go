package shared

import "sync"

// Gate serializes coupon operations for one store. It is deliberately
// non-reentrant and non-queueing: a caller that finds the gate held is
// rejected immediately instead of waiting, so point-spend and coupon
// issuance can never be silently reordered behind a stalled operation.
//
// The gate is owned by the manager instance; independent stores (tests,
// multiple users) never share one.
type Gate struct {
	mu sync.Mutex
}

func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire reports whether the gate was taken. Callers must Release in a
// defer so the gate is freed on every path, including panics.
func (g *Gate) TryAcquire() bool {
	return g.mu.TryLock()
}

func (g *Gate) Release() {
	g.mu.Unlock()
}
