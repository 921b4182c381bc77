package identity

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and for the HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
	KindUpstream
	KindInternal
)

// Error is the domain error carried across the service boundary. Code is a
// stable machine-readable identifier; Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error // wrapped cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind and code so sentinel comparisons via errors.Is work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newErr(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation failures, detected before any mutation.
var (
	ErrMissingField  = newErr(KindValidation, "missing_field", "all fields are required")
	ErrNameTooShort  = newErr(KindValidation, "name_too_short", "name must be at least 2 characters")
	ErrBadEmail      = newErr(KindValidation, "bad_email", "invalid email format")
	ErrBadMobile     = newErr(KindValidation, "bad_mobile", "invalid mobile number (10 digits starting with 6-9)")
	ErrWeakPassword  = newErr(KindValidation, "weak_password", "password must be at least 6 characters")
	ErrImageTooLarge = newErr(KindValidation, "image_too_large", "profile image may be at most 1 MiB")
	ErrInvalidOTP    = newErr(KindValidation, "invalid_otp", "invalid OTP")
)

// Conflict, auth, and lookup failures.
var (
	ErrAlreadyRegistered = newErr(KindConflict, "already_registered", "email or mobile number already registered")

	// ErrInvalidCredentials deliberately covers "no such account",
	// "unverified", and "wrong password" with one message to prevent
	// account enumeration.
	ErrInvalidCredentials = newErr(KindAuth, "invalid_credentials", "invalid credentials")
	ErrInvalidToken       = newErr(KindAuth, "invalid_token", "invalid token")

	ErrNotFound = newErr(KindNotFound, "not_found", "user not found")
)

// Collaborator failures. The identity's persisted state is consistent and
// the whole operation may be retried.
var (
	ErrStorageFailed = newErr(KindUpstream, "storage_failed", "image storage unavailable")
	ErrMailFailed    = newErr(KindUpstream, "mail_failed", "could not dispatch verification email")
)

// Internal wraps an unexpected fault with an opaque caller-facing message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "server_error", Message: "server error", Err: err}
}

// Upstream attaches a cause to one of the upstream sentinels.
func Upstream(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// KindOf extracts the Kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
