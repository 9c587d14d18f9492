package auth

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the login email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrRoleDisabled is returned when the account's role is inactive.
	ErrRoleDisabled = errors.New("user role is disabled")

	// ErrInvalidToken is returned for a malformed, badly signed or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked is returned for a token whose id was revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrEmptySecret is returned when a token issuer is created without a signing secret.
	ErrEmptySecret = errors.New("token signing secret is empty")
)
