package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CredentialStore holds registered accounts. Emails are unique across the
// store and serve as the login key.
type CredentialStore interface {
	Create(ctx context.Context, cred *Credential) error
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	FindByID(ctx context.Context, id string) (*Credential, error)
	SetLastLogin(ctx context.Context, userID string, at time.Time) error
}

// MemoryCredentialStore is the in-memory implementation used in demo mode
// and in tests.
type MemoryCredentialStore struct {
	mu      sync.Mutex
	byEmail map[string]*Credential
	byID    map[string]*Credential
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byEmail: make(map[string]*Credential),
		byID:    make(map[string]*Credential),
	}
}

func (s *MemoryCredentialStore) Create(ctx context.Context, cred *Credential) error {
	email := normalizeIdentifier(cred.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	if !cred.Role.Valid() {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return ErrAlreadyExists
	}
	stored := *cred
	stored.Email = email
	s.byEmail[email] = &stored
	s.byID[stored.ID] = &stored
	return nil
}

func (s *MemoryCredentialStore) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.byEmail[normalizeIdentifier(email)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *cred
	return &out, nil
}

func (s *MemoryCredentialStore) FindByID(ctx context.Context, id string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *cred
	return &out, nil
}

func (s *MemoryCredentialStore) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.byID[userID]
	if !ok {
		return ErrNotFound
	}
	cred.LastLogin = at
	return nil
}
