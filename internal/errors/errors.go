package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the categories the HTTP layer knows how to
// render. Internal is the zero value so uncategorized errors stay generic.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindIntegrity
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error is a kinded application error. Message is safe to show to callers;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Integrity(msg string) error {
	return &Error{Kind: KindIntegrity, Message: msg}
}

// External wraps a failure from an outside collaborator (payment gateway,
// search cluster). The message is surfaced; the cause is kept for logs.
func External(msg string, err error) error {
	return &Error{Kind: KindExternal, Message: msg, Err: err}
}

// Internal wraps an uncategorized failure. Callers see a generic message.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind from an error chain. Unknown errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for an error. Uncategorized
// errors yield a generic message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
