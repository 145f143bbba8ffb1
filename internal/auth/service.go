package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service composes the credential store, lockout policy, MFA manager and
// session manager into the two-step login protocol: Login issues an MFA
// challenge, VerifyMfa exchanges it for a session. MFA is mandatory for
// every successful credential check.
type Service struct {
	creds    CredentialStore
	lockout  *LockoutPolicy
	mfa      *MfaManager
	sessions *SessionManager
	now      func() time.Time

	defaultMfaType MfaType
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// WithDefaultMfaType overrides the challenge channel used when the caller
// does not pick one.
func WithDefaultMfaType(typ MfaType) ServiceOption {
	return func(s *Service) error {
		if !typ.Valid() {
			return fmt.Errorf("%w: unsupported mfa type %q", ErrInvalidInput, typ)
		}
		s.defaultMfaType = typ
		return nil
	}
}

// NewService constructs the orchestrator. All collaborators are required.
func NewService(creds CredentialStore, lockout *LockoutPolicy, mfa *MfaManager, sessions *SessionManager, opts ...ServiceOption) (*Service, error) {
	if creds == nil || lockout == nil || mfa == nil || sessions == nil {
		return nil, errors.New("auth: all collaborators are required")
	}
	s := &Service{
		creds:          creds,
		lockout:        lockout,
		mfa:            mfa,
		sessions:       sessions,
		now:            time.Now,
		defaultMfaType: MfaEmail,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoginOptions carries caller preferences for the first login step.
type LoginOptions struct {
	Remember bool
	MfaType  MfaType
}

// Login runs the first protocol step. The lockout check happens before
// any credential comparison so a locked identifier never learns whether
// the password guess was right, and unknown-user and wrong-password both
// surface as ErrInvalidCredentials to prevent user enumeration. On a
// credential match the failure record is cleared and an MFA challenge is
// always issued.
func (s *Service) Login(ctx context.Context, email, password string, opts LoginOptions) (MfaChallenge, error) {
	email = normalizeIdentifier(email)
	now := s.now().UTC()

	if s.lockout.Locked(email, now) {
		return MfaChallenge{}, ErrAccountLocked
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.lockout.RecordFailure(email, now)
			return MfaChallenge{}, ErrInvalidCredentials
		}
		return MfaChallenge{}, err
	}
	if cred.Status != UserStatusActive || VerifyPassword(cred.PasswordHash, password) != nil {
		s.lockout.RecordFailure(email, now)
		return MfaChallenge{}, ErrInvalidCredentials
	}

	s.lockout.RecordSuccess(email)

	typ := opts.MfaType
	if typ == "" {
		typ = s.defaultMfaType
	}
	return s.mfa.Issue(cred.ID, typ, now)
}

// VerifyOptions carries caller metadata for the second login step.
type VerifyOptions struct {
	Remember  bool
	IPAddress string
	UserAgent string
}

// VerifyMfa runs the second protocol step: it consumes the challenge,
// resolves the identity it points at and mints an active session.
func (s *Service) VerifyMfa(ctx context.Context, mfaID, code string, opts VerifyOptions) (Session, error) {
	now := s.now().UTC()

	ch, err := s.mfa.Verify(mfaID, code, now)
	if err != nil {
		return Session{}, err
	}

	cred, err := s.creds.FindByID(ctx, ch.UserID)
	if err != nil {
		return Session{}, err
	}
	// Best effort: a failed last-login write must not block the session.
	_ = s.creds.SetLastLogin(ctx, cred.ID, now)

	user := cred.User
	user.LastLogin = now
	return s.sessions.Create(user, SessionOptions{
		Remember:  opts.Remember,
		IPAddress: opts.IPAddress,
		UserAgent: opts.UserAgent,
	}, now)
}

// ActiveSession returns the first usable session, if any.
func (s *Service) ActiveSession() (Session, bool) {
	return s.sessions.Active(s.now().UTC())
}

// Session resolves a usable session by id.
func (s *Service) Session(sessionID string) (Session, bool) {
	return s.sessions.Get(sessionID, s.now().UTC())
}

// TouchSession bumps the session's last-activity clock.
func (s *Service) TouchSession(sessionID string) {
	s.sessions.Touch(sessionID, s.now().UTC())
}

// Logout terminates the session and removes it from the store.
func (s *Service) Logout(sessionID string) {
	s.sessions.Terminate(sessionID)
}

// Sessions exposes the session manager to the transport layer.
func (s *Service) Sessions() *SessionManager {
	return s.sessions
}
