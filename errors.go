package adminfront

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeUnauthenticated   = "UNAUTHENTICATED"
	textCodeCredentialMissing = "CREDENTIAL_MISSING"
	textCodeForbidden         = "FORBIDDEN"
	textCodeNotFound          = "NOT_FOUND"
	textCodeConflict          = "CONFLICT"
	textCodeValidation        = "VALIDATION_FAILED"
	textCodeLoginRejected     = "LOGIN_REJECTED"
	textCodeTransport         = "TRANSPORT_ERROR"
)

// ErrUnauthenticated is returned when the backend rejects the stored
// credential. The credential store has already been cleared by the time a
// caller sees this error.
var ErrUnauthenticated = goerrors.New("session expired or invalid, please sign in again", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrCredentialMissing is returned when a protected call is attempted while
// the credential store is empty. No network call is made.
var ErrCredentialMissing = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithTextCode(textCodeCredentialMissing).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned for authenticated calls that the backend rejects
// for lack of privileges. The credential store is left untouched.
var ErrForbidden = goerrors.New("you do not have permission to perform this action", goerrors.CategoryAuthz).
	WithTextCode(textCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// IsUnauthenticated reports whether err means the session is gone and the
// caller should navigate to login.
func IsUnauthenticated(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCodeUnauthenticated || richErr.TextCode == textCodeCredentialMissing
}

// IsForbidden reports whether err is a privilege rejection.
func IsForbidden(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCodeForbidden
}

// IsValidation reports whether err was produced by local input validation
// before any network call was made.
func IsValidation(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryValidation
}

// IsNotFound reports whether the backend answered 404 for the target
// user or resource.
func IsNotFound(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryNotFound
}

// IsConflict reports whether the backend rejected the call because of a
// conflicting record, e.g. a duplicate username on register.
func IsConflict(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryConflict
}

func validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid input").
		WithTextCode(textCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

func transportError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "could not reach the backend").
		WithTextCode(textCodeTransport).
		WithCode(goerrors.CodeInternal)
}

// backendError maps a non-2xx backend status plus its message body into the
// shared taxonomy. 401/403 on protected calls never reach here; the request
// authorizer intercepts those uniformly.
func backendError(status int, message string) error {
	if message == "" {
		message = "the backend rejected the request"
	}

	switch {
	case status == 404:
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithTextCode(textCodeNotFound).
			WithCode(goerrors.CodeNotFound)
	case status == 409 || isDuplicateMessage(message):
		return goerrors.New(message, goerrors.CategoryConflict).
			WithTextCode(textCodeConflict).
			WithCode(goerrors.CodeConflict)
	case status == 400:
		return goerrors.New(message, goerrors.CategoryValidation).
			WithTextCode(textCodeValidation).
			WithCode(goerrors.CodeBadRequest)
	default:
		return goerrors.New(message, goerrors.CategoryInternal).
			WithTextCode(textCodeTransport).
			WithCode(goerrors.CodeInternal)
	}
}

// The backend reports duplicate usernames as a plain 400.
func isDuplicateMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "already exists")
}
