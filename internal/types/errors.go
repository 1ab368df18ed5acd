package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable category carried by every error that crosses the engine boundary.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "invalid_input"
	KindNotFound      ErrorKind = "not_found"
	KindAlreadyExists ErrorKind = "already_exists"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindUnknownModel  ErrorKind = "unknown_model"
	KindUnavailable   ErrorKind = "unavailable"
	KindInternal      ErrorKind = "internal"
)

// Error is a classified error with a human readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match against any *Error of the same kind, so the sentinels below
// work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "requested item not found"}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Message: "item already exists"}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized, Message: "authentication required or invalid credentials"}
	ErrUnknownModel  = &Error{Kind: KindUnknownModel, Message: "model does not exist"}
	ErrUnavailable   = &Error{Kind: KindUnavailable, Message: "storage temporarily unavailable"}
	ErrInternal      = &Error{Kind: KindInternal, Message: "internal error"}
)

// NewError builds a classified error. cause may be nil.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func InvalidInputf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrInternal.Message
}
