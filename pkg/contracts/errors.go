// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the binding can surface. Native status
// codes are translated into one of these kinds at the first crossing of the
// C boundary; nothing is silently swallowed.
type ErrorKind int

const (
	// ErrConfiguration covers bad open targets or rejected config options.
	ErrConfiguration ErrorKind = iota
	// ErrConnection covers native open/connect failures.
	ErrConnection
	// ErrPreparation covers malformed SQL or unresolvable objects.
	ErrPreparation
	// ErrBinding covers parameter count or parameter type mismatches.
	ErrBinding
	// ErrExecution covers constraint violations and runtime failures
	// reported by the engine.
	ErrExecution
	// ErrTypeMismatch covers decode/encode requests incompatible with the
	// value's logical type.
	ErrTypeMismatch
	// ErrResource covers allocation or handle exhaustion, and use of a
	// handle after its owner was released.
	ErrResource
	// ErrTableFunction covers failures inside user bind/init/produce logic.
	ErrTableFunction
	// ErrExtension covers failures while loading or registering a module.
	ErrExtension
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "configuration"
	case ErrConnection:
		return "connection"
	case ErrPreparation:
		return "preparation"
	case ErrBinding:
		return "binding"
	case ErrExecution:
		return "execution"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrResource:
		return "resource"
	case ErrTableFunction:
		return "table function"
	case ErrExtension:
		return "extension"
	}
	return "unknown"
}

// Error is the typed error returned by every operation in this module.
// Message carries the native diagnostic text verbatim when available.
type Error struct {
	Kind    ErrorKind
	Message string
	// Wrapped holds an underlying cause, if any.
	Wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("duckdb: %s error", e.Kind)
	}
	return fmt.Sprintf("duckdb: %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// NewError builds a typed error with a diagnostic message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf builds a typed error with a formatted diagnostic message.
func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and context message to an underlying error.
func WrapError(kind ErrorKind, err error, message string) *Error {
	if err == nil {
		return nil
	}
	if message == "" {
		message = err.Error()
	} else {
		message = fmt.Sprintf("%s: %s", message, err.Error())
	}
	return &Error{Kind: kind, Message: message, Wrapped: err}
}

// NewTypeMismatchError reports a decode or encode request whose target type
// does not match the value's logical type tag.
func NewTypeMismatchError(requested, actual TypeID) *Error {
	return NewErrorf(ErrTypeMismatch, "requested %s but value is %s", requested, actual)
}

// IsKind reports whether err, or any error it wraps, carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
