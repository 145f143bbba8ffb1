package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMfaTTL is how long an issued challenge stays verifiable.
const DefaultMfaTTL = 5 * time.Minute

// MfaManager issues and verifies time-boxed one-time codes keyed by an
// unguessable challenge id. Challenges are single-use: a successful
// verification consumes the record, so a replay with the same id reports
// not found.
type MfaManager struct {
	mu         sync.Mutex
	ttl        time.Duration
	challenges map[string]*MfaChallenge
}

// NewMfaManager constructs a manager. A non-positive ttl falls back to
// DefaultMfaTTL.
func NewMfaManager(ttl time.Duration) *MfaManager {
	if ttl <= 0 {
		ttl = DefaultMfaTTL
	}
	return &MfaManager{
		ttl:        ttl,
		challenges: make(map[string]*MfaChallenge),
	}
}

// Issue stores and returns a fresh challenge for the user with a 6-digit
// code drawn uniformly from [100000, 999999].
func (m *MfaManager) Issue(userID string, typ MfaType, now time.Time) (MfaChallenge, error) {
	if !typ.Valid() {
		return MfaChallenge{}, fmt.Errorf("%w: unsupported mfa type %q", ErrInvalidInput, typ)
	}
	code, err := sixDigitCode()
	if err != nil {
		return MfaChallenge{}, fmt.Errorf("generate mfa code: %w", err)
	}
	ch := MfaChallenge{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Secret:    code,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	m.challenges[ch.ID] = &ch
	m.mu.Unlock()
	return ch, nil
}

// Verify checks a code against the stored challenge. Error precedence is
// fixed: unknown id, then expiry, then code mismatch. Expired challenges
// are purged on detection. On success the challenge is consumed and
// returned so the caller can resolve the target identity; a wrong code
// leaves the challenge live until it expires.
func (m *MfaManager) Verify(mfaID, code string, now time.Time) (MfaChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[mfaID]
	if !ok {
		return MfaChallenge{}, ErrMfaNotFound
	}
	if now.After(ch.ExpiresAt) {
		delete(m.challenges, mfaID)
		return MfaChallenge{}, ErrMfaExpired
	}
	if ch.Secret != code {
		return MfaChallenge{}, ErrMfaInvalidCode
	}
	delete(m.challenges, mfaID)
	return *ch, nil
}

// Pending returns the number of stored challenges.
func (m *MfaManager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.challenges)
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
