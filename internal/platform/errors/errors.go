// Package errors provides error types and utilities for finsight.
// It extends the standard errors package with wrapping helpers and the
// sentinel errors shared by the upstream adapters.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common upstream failure scenarios
var (
	// ErrTimeout indicates an upstream call exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates an upstream rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the upstream rejected the credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates an upstream is temporarily down
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates an upstream body could not be parsed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrMissingConfig indicates a required credential or setting is absent
	ErrMissingConfig = errors.New("missing_config")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap envuelve un error con un mensaje de contexto.
// Si err es nil, Wrap retorna nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf envuelve un error con un mensaje de contexto formateado.
// Si err es nil, Wrapf retorna nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns an error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error wrapping the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsTimeout reports whether the error is a timeout error.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsMissingConfig reports whether the error is a missing credential error.
func IsMissingConfig(err error) bool {
	return Is(err, ErrMissingConfig)
}

// IsInvalidResponse reports whether the error is a malformed body error.
func IsInvalidResponse(err error) bool {
	return Is(err, ErrInvalidResponse)
}
