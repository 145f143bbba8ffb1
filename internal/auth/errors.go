package auth

import "errors"

var (
	ErrAccountLocked      = errors.New("auth: account temporarily locked")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMfaNotFound        = errors.New("auth: mfa challenge not found")
	ErrMfaExpired         = errors.New("auth: mfa code expired")
	ErrMfaInvalidCode     = errors.New("auth: invalid mfa code")

	ErrNotFound      = errors.New("auth: not found")
	ErrAlreadyExists = errors.New("auth: already exists")
	ErrInvalidInput  = errors.New("auth: invalid input")
	ErrUnauthorized  = errors.New("auth: unauthorized")
	ErrInvalidToken  = errors.New("auth: invalid token")
)
