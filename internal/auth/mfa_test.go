package auth

import (
	"errors"
	"testing"
	"time"
)

func TestMfaIssueShape(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMfaManager(5 * time.Minute)

	ch, err := m.Issue("u_admin", MfaEmail, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if ch.ID == "" {
		t.Fatal("expected challenge id")
	}
	if ch.UserID != "u_admin" || ch.Type != MfaEmail {
		t.Fatalf("unexpected challenge: %+v", ch)
	}
	if len(ch.Secret) != 6 {
		t.Fatalf("code length = %d, want 6", len(ch.Secret))
	}
	if ch.Secret[0] == '0' {
		t.Fatalf("code %s outside [100000,999999]", ch.Secret)
	}
	if !ch.ExpiresAt.Equal(now.Add(5 * time.Minute)) {
		t.Fatalf("unexpected expiry: %v", ch.ExpiresAt)
	}
}

func TestMfaIssueRejectsUnknownType(t *testing.T) {
	m := NewMfaManager(0)
	if _, err := m.Issue("u1", MfaType("carrier-pigeon"), time.Now()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMfaVerifyPrecedence(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMfaManager(5 * time.Minute)
	ch, err := m.Issue("u1", MfaSMS, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Unknown id wins over everything.
	if _, err := m.Verify("missing", ch.Secret, now); !errors.Is(err, ErrMfaNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	// Expiry wins over a wrong code.
	if _, err := m.Verify(ch.ID, "000000", now.Add(6*time.Minute)); !errors.Is(err, ErrMfaExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	// Expired challenges are purged on detection.
	if m.Pending() != 0 {
		t.Fatalf("pending = %d, want 0 after expiry purge", m.Pending())
	}
}

func TestMfaWrongCodeKeepsChallengeLive(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMfaManager(5 * time.Minute)
	ch, _ := m.Issue("u1", MfaEmail, now)

	if _, err := m.Verify(ch.ID, "not-it", now); !errors.Is(err, ErrMfaInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
	// The challenge survives a wrong code and the right one still works.
	got, err := m.Verify(ch.ID, ch.Secret, now)
	if err != nil {
		t.Fatalf("Verify after wrong code: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("unexpected user: %s", got.UserID)
	}
}

func TestMfaReplayAfterSuccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMfaManager(5 * time.Minute)
	ch, _ := m.Issue("u1", MfaEmail, now)

	if _, err := m.Verify(ch.ID, ch.Secret, now); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	// Success consumes the challenge; replaying the same id reports not
	// found even with the correct code.
	if _, err := m.Verify(ch.ID, ch.Secret, now); !errors.Is(err, ErrMfaNotFound) {
		t.Fatalf("expected not found on replay, got %v", err)
	}
}

func TestMfaCodesStayInRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := sixDigitCode()
		if err != nil {
			t.Fatalf("sixDigitCode: %v", err)
		}
		if len(code) != 6 || code < "100000" || code > "999999" {
			t.Fatalf("code %q out of range", code)
		}
	}
}
