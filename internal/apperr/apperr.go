// Package apperr defines the error taxonomy reported by the trainer core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that map it to a transport status.
type Kind string

const (
	KindUnknown         Kind = ""
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindInvalidArgument Kind = "invalid_argument"
	KindNoContent       Kind = "no_content"
	KindStorage         Kind = "storage_error"
)

var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrNoContent       = &Error{Kind: KindNoContent}
	ErrStorage         = &Error{Kind: KindStorage}
)

// Error is a classified error. Two errors match with errors.Is when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that sentinel values like ErrNotFound can be used with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err returns nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Storage wraps an unexpected repository failure.
func Storage(err error, message string) error {
	return Wrap(KindStorage, err, message)
}

// NotFound is a shorthand for New(KindNotFound, ...).
func NotFound(format string, args ...any) error {
	return New(KindNotFound, format, args...)
}

// Forbidden is a shorthand for New(KindForbidden, ...).
func Forbidden(format string, args ...any) error {
	return New(KindForbidden, format, args...)
}

// InvalidArgument is a shorthand for New(KindInvalidArgument, ...).
func InvalidArgument(format string, args ...any) error {
	return New(KindInvalidArgument, format, args...)
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
