// Package parityerr defines the failure taxonomy for decimal-parity.
//
// Every error surfaced by the engine, the fixture pipeline, or the CLI maps to
// exactly one FailureClass. The class decides the process exit code and lets
// the oracle tell an expected pattern rejection apart from a fatal failure.
package parityerr

import (
	"errors"
	"fmt"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	PatternSyntax FailureClass = "PATTERN_SYNTAX"
	MatrixInvalid FailureClass = "MATRIX_INVALID"
	LocaleUnknown FailureClass = "LOCALE_UNKNOWN"
	FixtureDecode FailureClass = "FIXTURE_DECODE"
	FixtureDrift  FailureClass = "FIXTURE_DRIFT"
	CLIUsage      FailureClass = "CLI_USAGE"
	InternalIO    FailureClass = "INTERNAL_IO"
	InternalError FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all decimal-parity failures.
//
// Offset is a rune index into a pattern, a byte offset into a fixture
// file, or -1 when no position applies.
type Error struct {
	Class   FailureClass
	Offset  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var s string
	if e.Offset >= 0 {
		s = fmt.Sprintf("parityerr: %s at index %d: %s", e.Class, e.Offset, e.Message)
	} else {
		s = fmt.Sprintf("parityerr: %s: %s", e.Class, e.Message)
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, offset int, message string) *Error {
	return &Error{Class: class, Offset: offset, Message: message}
}

// Newf is New with a format string.
func Newf(class FailureClass, offset int, format string, args ...any) *Error {
	return &Error{Class: class, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, offset int, message string, cause error) *Error {
	return &Error{Class: class, Offset: offset, Message: message, Cause: cause}
}

// ClassOf reports the failure class of the first *Error in err's chain.
// Errors outside the taxonomy are InternalError.
func ClassOf(err error) FailureClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return InternalError
}

// Is reports whether err carries the given failure class.
func Is(err error, class FailureClass) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == class
}
