package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 12

var (
	// ErrPasswordTooShort is returned before any character-class check.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrPasswordWeak covers the combined character-class requirement.
	ErrPasswordWeak = errors.New("password must include upper, lower, number, and symbol")
)

// ValidatePasswordPolicy checks password strength against the default
// policy. It is not a login blocker; callers use it for registration and
// UX warnings. Returns nil when the password satisfies every rule.
func ValidatePasswordPolicy(password string) error {
	return PasswordPolicy{MinLength: PasswordMinLength}.Validate(password)
}

// PasswordPolicy is a stateless strength validator.
type PasswordPolicy struct {
	MinLength int
}

// Validate reports the first failing rule: length first, then the
// combined character-class requirement.
func (p PasswordPolicy) Validate(password string) error {
	min := p.MinLength
	if min <= 0 {
		min = PasswordMinLength
	}
	if len(password) < min {
		return ErrPasswordTooShort
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return ErrPasswordWeak
	}
	return nil
}

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with the stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
