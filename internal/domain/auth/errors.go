package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
	ErrOAuthNotConfigured = errors.New("google login is not configured")
)
