// Package apperr carries the error taxonomy every caller-facing failure maps to.
// Storage-engine errors are wrapped, never exposed verbatim.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *Error) Kind() Kind { return e.kind }

// Message returns the caller-safe description without the wrapped cause.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

// The constructors take an optional cause. It stays available for logs via
// Unwrap but is excluded from Message.

func InvalidArgument(msg string, cause error) error { return newError(KindInvalidArgument, msg, cause) }
func Unauthenticated(msg string, cause error) error { return newError(KindUnauthenticated, msg, cause) }
func Forbidden(msg string, cause error) error       { return newError(KindForbidden, msg, cause) }
func NotFound(msg string, cause error) error        { return newError(KindNotFound, msg, cause) }
func Conflict(msg string, cause error) error        { return newError(KindConflict, msg, cause) }
func Unavailable(msg string, cause error) error     { return newError(KindUnavailable, msg, cause) }

// Wrap attaches a cause to an existing taxonomy error, or classifies a plain
// error as Unavailable.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return &Error{kind: ae.kind, msg: msg, cause: err}
	}
	return &Error{kind: KindUnavailable, msg: msg, cause: err}
}

// KindOf extracts the taxonomy kind, defaulting to Unknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
