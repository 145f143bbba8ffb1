package auth

import "time"

// UserRole is the closed set of roles known to the system. Roles are not
// extensible at runtime; the RBAC table maps each of them to a fixed
// permission list.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleDeptAdmin UserRole = "dept_admin"
	RoleFaculty   UserRole = "faculty"
	RoleStudent   UserRole = "student"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeptAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// UserStatus describes account standing.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the identity subset exposed outside the auth boundary.
type User struct {
	ID           string     `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	DepartmentID string     `json:"department_id,omitempty"`
	Status       UserStatus `json:"status"`
	LastLogin    time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
}

// Credential pairs an identity with its password hash. Owned by the
// credential store; the hash never crosses the auth boundary.
type Credential struct {
	User
	PasswordHash string `json:"-"`
}

// MfaType enumerates supported challenge delivery channels.
type MfaType string

const (
	MfaSMS           MfaType = "sms"
	MfaEmail         MfaType = "email"
	MfaAuthenticator MfaType = "authenticator"
	MfaBiometric     MfaType = "biometric"
)

// Valid reports whether the type is one of the supported channels.
func (t MfaType) Valid() bool {
	switch t {
	case MfaSMS, MfaEmail, MfaAuthenticator, MfaBiometric:
		return true
	}
	return false
}

// MfaChallenge is a short-lived, single-use secondary verification code
// tied to a login attempt. The secret is returned to the caller only in
// this demo-grade design; a production deployment dispatches it
// out-of-band instead.
type MfaChallenge struct {
	ID        string    `json:"mfa_id"`
	UserID    string    `json:"user_id"`
	Type      MfaType   `json:"type"`
	Secret    string    `json:"secret"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatus tracks the session state machine. Expired and terminated
// are terminal; there is no transition back to active.
type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionExpired    SessionStatus = "expired"
	SessionTerminated SessionStatus = "terminated"
)

// Session is the server-held record for an authenticated caller.
// RememberUntil, when set, overrides idle-timeout expiry until it passes.
type Session struct {
	ID            string        `json:"session_id"`
	User          User          `json:"user"`
	Token         string        `json:"token"`
	IPAddress     string        `json:"ip_address,omitempty"`
	UserAgent     string        `json:"user_agent,omitempty"`
	LoginTime     time.Time     `json:"login_time"`
	LastActivity  time.Time     `json:"last_activity"`
	Status        SessionStatus `json:"status"`
	RememberUntil time.Time     `json:"remember_until,omitempty"`
}

// Remembered reports whether the remember-me window is still open at now.
func (s Session) Remembered(now time.Time) bool {
	return !s.RememberUntil.IsZero() && now.Before(s.RememberUntil)
}
