package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error independent of transport.
type Kind uint8

const (
	Internal            Kind = iota // unexpected failure inside the engine
	Validation                      // bad input: non-positive amount, missing reference, below minimum
	NotFound                        // payment, wallet or settlement request absent
	Signature                       // gateway signature mismatch, never retried
	InvalidState                    // operation attempted from a disallowed lifecycle state
	InsufficientBalance             // debit or settlement request exceeds wallet balance
	Unauthorized                    // missing or invalid credentials
	Forbidden                       // authenticated but not allowed
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation error"
	case NotFound:
		return "not found"
	case Signature:
		return "signature verification failed"
	case InvalidState:
		return "invalid state transition"
	case InsufficientBalance:
		return "insufficient balance"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "internal error"
	}
}

// Error is the standard application error carried across usecase boundaries.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// E builds an *Error from a Kind, a message and optionally a wrapped error.
func E(kind Kind, message string, wrapped ...error) error {
	e := &Error{Kind: kind, Message: message}
	if len(wrapped) > 0 {
		e.Wrapped = wrapped[0]
	}
	return e
}

// KindOf extracts the Kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
