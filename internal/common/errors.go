// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")

	// Service-level error kinds. User-facing failures wrap one of these.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("conflict")
	ErrorBadRequest   = errors.New("bad request")

	// Token errors (bad signature, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakSecret   = errors.New("secret key must be at least 32 bytes")
)

// Error is a failure with a message meant for the end user. Kind is one of the
// service-level sentinels above and is reachable through errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Conflict reports a uniqueness violation, e.g. an e-mail already in use.
func Conflict(msg string) error { return &Error{Kind: ErrorConflict, Message: msg} }

// Unauthorized reports failed authentication.
func Unauthorized(msg string) error { return &Error{Kind: ErrorUnauthorized, Message: msg} }

// BadRequest reports a request that cannot be honoured as sent.
func BadRequest(msg string) error { return &Error{Kind: ErrorBadRequest, Message: msg} }

// Message returns the user-facing message of err, or fallback when err does
// not carry one.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
