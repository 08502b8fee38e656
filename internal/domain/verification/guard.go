// Package verification holds the brute-force guard protecting secret-code
// verification. The guard is a two-state machine over {unlocked, locked};
// every transition must be persisted immediately by the caller so that
// killing the process mid-lockout does not lose the penalty.
package verification

import "time"

type Policy struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// State is the persisted portion of the guard. A zero LockedUntil means
// unlocked.
type State struct {
	FailedAttempts int
	LockedUntil    time.Time
}

type Guard struct {
	policy Policy
	state  State
}

func NewGuard(policy Policy, state State) *Guard {
	return &Guard{policy: policy, state: state}
}

func (g *Guard) State() State {
	return g.state
}

// Check reports whether verification is currently locked out. A lockout whose
// deadline has passed self-transitions back to unlocked (resetting the attempt
// counter) before the answer is computed; transitioned reports that the state
// changed and must be persisted. The boundary is inclusive: a request exactly
// at LockedUntil is processed as freshly unlocked.
func (g *Guard) Check(now time.Time) (locked bool, remaining time.Duration, transitioned bool) {
	if g.state.LockedUntil.IsZero() {
		return false, 0, false
	}
	if now.Before(g.state.LockedUntil) {
		return true, g.state.LockedUntil.Sub(now), false
	}
	g.state = State{}
	return false, 0, true
}

// RecordFailure consumes one attempt. Reaching MaxAttempts transitions to
// locked with LockedUntil = now + LockoutDuration and resets the counter.
func (g *Guard) RecordFailure(now time.Time) (lockedNow bool) {
	g.state.FailedAttempts++
	if g.state.FailedAttempts >= g.policy.MaxAttempts {
		g.state = State{LockedUntil: now.Add(g.policy.LockoutDuration)}
		return true
	}
	return false
}

// RecordSuccess resets the attempt counter after a valid match. Matches
// against already-used or expired coupons must NOT call this: they are not
// valid proof of possession and do not refill the attacker's budget.
func (g *Guard) RecordSuccess() (changed bool) {
	if g.state.FailedAttempts == 0 && g.state.LockedUntil.IsZero() {
		return false
	}
	g.state = State{}
	return true
}

func (g *Guard) RemainingAttempts() int {
	remaining := g.policy.MaxAttempts - g.state.FailedAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
