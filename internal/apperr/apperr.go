// Package apperr defines the error taxonomy shared by services, repositories
// and the HTTP layer. Every failure a caller can branch on is one of the
// kinds below; anything else surfaces as KindUnexpected.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an application error
type Kind uint8

const (
	KindUnexpected Kind = iota
	KindValidation
	KindPermissionDenied
	KindConflict
	KindNotFound
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// Error is an application error with a classified kind
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// RetryAfter is set only for KindRateLimited
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return e.Msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// PermissionDenied creates a permission error
func PermissionDenied(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// RateLimited creates a rate-limit error carrying the wait duration
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Msg:        "too many requests",
		RetryAfter: retryAfter,
	}
}

// Unexpected wraps an internal failure
func Unexpected(msg string, err error) *Error {
	return &Error{Kind: KindUnexpected, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected for unclassified errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// RetryAfterOf returns the retry-after duration carried by a rate-limit
// error, or zero for any other error
func RetryAfterOf(err error) time.Duration {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.RetryAfter
	}
	return 0
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
