// Package domainerrors defines the coded error type shared by every layer.
//
// Domain code returns *Error values built with New or Wrap. Transport layers
// (the REPL dispatcher, HTTP handlers) match on the Code with HasCode and decide
// how to render the failure; they never inspect messages.
package domainerrors

import (
	"errors"
)

// Code classifies a failure. Values are stable and appear in HTTP error bodies.
type Code string

const (
	// Field validation failures.
	CodeInvalidPhoneFormat Code = "invalid_phone_format"
	CodeInvalidDateFormat  Code = "invalid_date_format"

	// Record and directory invariants.
	CodeBirthdayAlreadySet Code = "birthday_already_set"
	CodeDuplicateName      Code = "duplicate_name"

	// Caller supplied too few or wrong-shaped arguments for an operation.
	CodeMissingArguments Code = "missing_arguments"

	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
)

// Error is a domain failure with a machine-readable code and a user-facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
// Returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal for
// errors that did not originate in domain code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, falling back to err.Error().
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
