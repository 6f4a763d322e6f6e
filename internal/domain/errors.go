package domain

import "errors"

// ErrorKind classifies failures returned by the product lifecycle.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidTransition
	KindConflict
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a terminal, non-retryable failure. Msg is safe to show to the caller.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Unauthorized(msg string) error      { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error         { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error          { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidTransition(msg string) error { return &Error{Kind: KindInvalidTransition, Msg: msg} }
func Conflict(msg string) error          { return &Error{Kind: KindConflict, Msg: msg} }
func Validation(msg string) error        { return &Error{Kind: KindValidation, Msg: msg} }

// KindOf returns the kind of err, or KindInternal when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
