package auth

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxFailedAttempts is the consecutive-failure threshold that
	// opens a lock window.
	DefaultMaxFailedAttempts = 5
	// DefaultLockWindow is how long an identifier stays locked once the
	// threshold is reached.
	DefaultLockWindow = 15 * time.Minute
)

type lockoutState struct {
	count       int
	lockedUntil time.Time
}

// LockoutPolicy tracks consecutive failed logins per identifier and
// rejects attempts outright while a lock window is open. It must be
// consulted before any credential comparison so a locked identifier never
// learns whether a guess was right.
type LockoutPolicy struct {
	mu          sync.Mutex
	maxAttempts int
	lockWindow  time.Duration
	attempts    map[string]*lockoutState
}

// NewLockoutPolicy constructs a policy. Non-positive arguments fall back
// to the defaults.
func NewLockoutPolicy(maxAttempts int, lockWindow time.Duration) *LockoutPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxFailedAttempts
	}
	if lockWindow <= 0 {
		lockWindow = DefaultLockWindow
	}
	return &LockoutPolicy{
		maxAttempts: maxAttempts,
		lockWindow:  lockWindow,
		attempts:    make(map[string]*lockoutState),
	}
}

// Locked reports whether the identifier is inside a lock window at now.
func (p *LockoutPolicy) Locked(identifier string, now time.Time) bool {
	identifier = normalizeIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.attempts[identifier]
	if !ok {
		return false
	}
	return !st.lockedUntil.IsZero() && now.Before(st.lockedUntil)
}

// RecordFailure increments the failure counter, creating the record on
// first failure. Once the counter reaches the threshold every further
// failure re-opens the lock window; the counter keeps accumulating until
// a success clears it.
func (p *LockoutPolicy) RecordFailure(identifier string, now time.Time) {
	identifier = normalizeIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.attempts[identifier]
	if !ok {
		st = &lockoutState{}
		p.attempts[identifier] = st
	}
	st.count++
	if st.count >= p.maxAttempts {
		st.lockedUntil = now.Add(p.lockWindow)
	}
}

// RecordSuccess deletes the identifier's record wholesale, so a single
// legitimate login never leaves the account one failure from lockout.
func (p *LockoutPolicy) RecordSuccess(identifier string) {
	identifier = normalizeIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.attempts, identifier)
}

// Failures returns the current consecutive-failure count.
func (p *LockoutPolicy) Failures(identifier string) int {
	identifier = normalizeIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.attempts[identifier]; ok {
		return st.count
	}
	return 0
}

func normalizeIdentifier(identifier string) string {
	return strings.TrimSpace(strings.ToLower(identifier))
}
