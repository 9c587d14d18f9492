package login

import (
	"errors"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
)

// Reasons stored in the login log for rejected attempts.
const (
	ReasonUnknownEmail    = "unknown_email"
	ReasonInvalidPassword = "invalid_password"
	ReasonAccountDisabled = "account_disabled"
	ReasonRoleDisabled    = "role_disabled"
	ReasonStorage         = "storage_unavailable"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid email or password")

// ErrAccountDisabled is returned for a deactivated account or an inactive role.
var ErrAccountDisabled = apperr.New(apperr.KindUnauthorized, "account is disabled")

// classify maps an authentication failure onto the login log reason and the error rendered to the client.
// Store failures keep their kind.
func classify(err error) (string, error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return ReasonUnknownEmail, ErrInvalidCredentials
	case errors.Is(err, auth.ErrInvalidPassword):
		return ReasonInvalidPassword, ErrInvalidCredentials
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return ReasonAccountDisabled, ErrAccountDisabled
	case errors.Is(err, auth.ErrRoleDisabled):
		return ReasonRoleDisabled, ErrAccountDisabled
	default:
		return ReasonStorage, apperr.Storage(err)
	}
}
