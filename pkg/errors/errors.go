// Package errors defines the coded errors and user-visible warnings shared
// by the visuals, the pipeline and the hosts (CLI, HTTP server).
//
// A [Code] groups failures by what the caller can do about them:
// INVALID_* codes mean the request must change, NOT_FOUND codes name a
// missing file, visual object or location, and NETWORK_ERROR, TIMEOUT and
// RATE_LIMITED are [Temporary] and worth retrying.
//
// Problems with the data itself are not errors. A visual recovers locally,
// keeps drawing what it can and hands a [Warning] to the host:
//
//	if errors.Is(err, errors.ErrCodeInvalidVisual) {
//		// unknown visual type, list the registered ones
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidData     Code = "INVALID_DATA"
	ErrCodeInvalidDataView Code = "INVALID_DATA_VIEW"
	ErrCodeInvalidVisual   Code = "INVALID_VISUAL"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// ErrCodeTooManySeries marks a data view with more series than a
	// visual can draw.
	ErrCodeTooManySeries Code = "TOO_MANY_SERIES"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeLocationNotFound Code = "LOCATION_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is shown to users as is; Cause is
// kept for logs and errors.Is/As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error that records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Temporary reports whether err carries a code that may succeed on retry:
// network failures, timeouts and rate limiting.
func Temporary(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited:
		return true
	}
	return false
}
