package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultIdleTimeout expires a session after this much inactivity
	// unless the remember-me window overrides it.
	DefaultIdleTimeout = 30 * time.Minute
	// DefaultRememberWindow is the absolute validity granted by
	// remember-me.
	DefaultRememberWindow = 30 * 24 * time.Hour
)

// SessionOptions carries per-session request metadata.
type SessionOptions struct {
	Remember  bool
	IPAddress string
	UserAgent string
}

// SessionManagerOption configures SessionManager behavior.
type SessionManagerOption func(*SessionManager)

// WithIdleTimeout overrides the idle timeout.
func WithIdleTimeout(d time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

// WithRememberWindow overrides the remember-me window.
func WithRememberWindow(d time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.rememberWindow = d
		}
	}
}

// WithTokenFunc installs a custom bearer token minter. The default is an
// opaque random token.
func WithTokenFunc(fn func(Session) (string, error)) SessionManagerOption {
	return func(m *SessionManager) {
		if fn != nil {
			m.tokenFn = fn
		}
	}
}

// SessionManager creates, looks up, expires and terminates sessions.
// Expiry is lazy: deadlines are checked on access, never by a background
// sweep, and idle timeout is overridden while the remember-me window is
// open.
type SessionManager struct {
	mu             sync.Mutex
	idleTimeout    time.Duration
	rememberWindow time.Duration
	tokenFn        func(Session) (string, error)
	sessions       map[string]*Session
}

// NewSessionManager constructs a manager with optional configuration.
func NewSessionManager(opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		idleTimeout:    DefaultIdleTimeout,
		rememberWindow: DefaultRememberWindow,
		sessions:       make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create mints and stores a fresh active session for the user.
func (m *SessionManager) Create(user User, opts SessionOptions, now time.Time) (Session, error) {
	sess := Session{
		ID:           uuid.NewString(),
		User:         user,
		Token:        uuid.NewString(),
		IPAddress:    opts.IPAddress,
		UserAgent:    opts.UserAgent,
		LoginTime:    now,
		LastActivity: now,
		Status:       SessionActive,
	}
	if opts.Remember {
		sess.RememberUntil = now.Add(m.rememberWindow)
	}
	if m.tokenFn != nil {
		token, err := m.tokenFn(sess)
		if err != nil {
			return Session{}, err
		}
		sess.Token = token
	}
	stored := sess
	m.mu.Lock()
	m.sessions[sess.ID] = &stored
	m.mu.Unlock()
	return sess, nil
}

// Active returns the first usable active session, lazily flipping any
// timed-out, not-remembered session to expired along the way. The
// first-active policy assumes one logical session per process; callers
// serving multiple users should resolve sessions by id instead.
func (m *SessionManager) Active(now time.Time) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Status != SessionActive {
			continue
		}
		if m.timedOut(s, now) && !s.Remembered(now) {
			s.Status = SessionExpired
			continue
		}
		return *s, true
	}
	return Session{}, false
}

// Get returns the session by id if it is still usable, applying the same
// lazy expiry as Active.
func (m *SessionManager) Get(sessionID string, now time.Time) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.Status != SessionActive {
		return Session{}, false
	}
	if m.timedOut(s, now) && !s.Remembered(now) {
		s.Status = SessionExpired
		return Session{}, false
	}
	return *s, true
}

// Inspect returns the stored record regardless of liveness. Intended for
// tests and diagnostics.
func (m *SessionManager) Inspect(sessionID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Touch bumps the session's last-activity clock. Unknown ids are a no-op.
func (m *SessionManager) Touch(sessionID string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.LastActivity = now
	}
}

// Terminate flips the session to terminated and removes it from the
// store. Unknown ids are a no-op.
func (m *SessionManager) Terminate(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.Status = SessionTerminated
		delete(m.sessions, sessionID)
	}
}

// Len returns the number of stored sessions, expired ones included.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) timedOut(s *Session, now time.Time) bool {
	return now.Sub(s.LastActivity) > m.idleTimeout
}
