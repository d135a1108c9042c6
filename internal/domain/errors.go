package domain

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies a domain failure for callers
type Kind string

const (
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindLocationUnresolvable Kind = "LOCATION_UNRESOLVABLE"
	KindNotFound             Kind = "NOT_FOUND"
	KindUnavailable          Kind = "UNAVAILABLE"
	KindInternal             Kind = "INTERNAL"
)

// Error is a categorized failure carrying the stack where it was raised
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackTrace returns the captured stack
func (e *Error) StackTrace() []byte {
	return e.Stack
}

// NewError builds an Error, capturing the caller's stack
func NewError(kind Kind, message string, err error) *Error {
	var stack []byte
	switch {
	case err == nil:
		stack = goerrors.Wrap(message, 2).Stack()
	default:
		var ge *goerrors.Error
		if errors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func InvalidInput(message string, err error) *Error {
	return NewError(KindInvalidInput, message, err)
}

func LocationUnresolvable(message string, err error) *Error {
	return NewError(KindLocationUnresolvable, message, err)
}

func NotFound(message string, err error) *Error {
	return NewError(KindNotFound, message, err)
}

func Unavailable(message string, err error) *Error {
	return NewError(KindUnavailable, message, err)
}

func Internal(message string, err error) *Error {
	return NewError(KindInternal, message, err)
}

// IsKind reports whether err is a domain Error of the given kind
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
