// Package apperr defines the error kinds returned by controllers and how they map onto HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	// KindValidationFailed is a malformed or invalid request.
	KindValidationFailed Kind = "VALIDATION_FAILED"
	// KindUnauthorized is a missing, invalid or revoked credential.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindForbidden is an authenticated caller lacking a permission.
	KindForbidden Kind = "FORBIDDEN"
	// KindNotFound is an absent role, menu, permission, user, customer, ...
	KindNotFound Kind = "NOT_FOUND"
	// KindAlreadyExists is a uniqueness violation.
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	// KindCodeExists is a uniqueness violation on a code column. It matches KindAlreadyExists.
	KindCodeExists Kind = "CODE_EXISTS"
	// KindCircularReference is a parent assignment that would create a cycle.
	KindCircularReference Kind = "CIRCULAR_REFERENCE"
	// KindHasChildren blocks deleting a menu that still has children.
	KindHasChildren Kind = "HAS_CHILDREN"
	// KindSystemRoleProtected blocks deleting a system role.
	KindSystemRoleProtected Kind = "SYSTEM_ROLE_PROTECTED"
	// KindRoleInUse blocks deleting a role still assigned to users.
	KindRoleInUse Kind = "ROLE_IN_USE"
	// KindParentNotFound is a parent id that does not reference an existing menu.
	KindParentNotFound Kind = "PARENT_NOT_FOUND"
	// KindUnknownTarget is an association target id that does not exist.
	KindUnknownTarget Kind = "UNKNOWN_TARGET"
	// KindStorageUnavailable is any failure of the backing store.
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
	// KindInternal is everything else.
	KindInternal Kind = "INTERNAL"
)

// Sentinels usable with errors.Is.
var (
	ErrValidationFailed    = &Error{Kind: KindValidationFailed}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrAlreadyExists       = &Error{Kind: KindAlreadyExists}
	ErrCodeExists          = &Error{Kind: KindCodeExists}
	ErrCircularReference   = &Error{Kind: KindCircularReference}
	ErrHasChildren         = &Error{Kind: KindHasChildren}
	ErrSystemRoleProtected = &Error{Kind: KindSystemRoleProtected}
	ErrRoleInUse           = &Error{Kind: KindRoleInUse}
	ErrParentNotFound      = &Error{Kind: KindParentNotFound}
	ErrUnknownTarget       = &Error{Kind: KindUnknownTarget}
	ErrStorageUnavailable  = &Error{Kind: KindStorageUnavailable}
)

// Error is an application error carrying a kind, a human message and optional details
// that are merged into the JSON error envelope.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind. A CodeExists error also matches AlreadyExists.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind == e.Kind {
		return true
	}

	return t.Kind == KindAlreadyExists && e.Kind == KindCodeExists
}

// With returns a copy of e with an additional detail field.
func (e *Error) With(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}

	details[key] = value

	return &Error{Kind: e.Kind, Message: e.Message, Details: details, Err: e.Err}
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NotFound creates a NotFound error naming the missing resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Validation creates a ValidationFailed error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message}
}

// Storage wraps a store failure. A nil err yields nil; errors that already carry a kind pass through.
func Storage(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	return &Error{Kind: KindStorageUnavailable, Message: "storage unavailable", Err: err}
}

// KindOf returns the kind of err, KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindInternal
}

// Status maps a kind onto its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden, KindSystemRoleProtected:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists, KindCodeExists, KindCircularReference, KindHasChildren, KindRoleInUse:
		return http.StatusConflict
	case KindParentNotFound, KindUnknownTarget:
		return http.StatusUnprocessableEntity
	case KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
