// Package httpkit is the runtime imported by generated route handlers and
// client stubs.
package httpkit

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// StatusError is an error answered with a specific HTTP status.
type StatusError struct {
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", http.StatusText(e.Code), e.Err)
	}
	return http.StatusText(e.Code)
}

// StatusCode implements StatusCoder.
func (e *StatusError) StatusCode() int {
	return e.Code
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Is matches any *StatusError with the same code, so errors.Is(err,
// ErrUnprocessable) holds for every 422.
func (e *StatusError) Is(target error) bool {
	var t *StatusError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == "" && t.Err == nil
}

// ErrUnprocessable is the 422 answered when a path or query value fails coercion.
var ErrUnprocessable = &StatusError{Code: http.StatusUnprocessableEntity}

// Errorf creates a *StatusError. A %w verb in format is unwrapped as usual.
func Errorf(code int, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &StatusError{Code: code, Message: err.Error(), Err: errors.Unwrap(err)}
}

// StatusOf returns the status carried by err, 400 when it carries none and
// 200 for a nil error.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var coder StatusCoder
	if errors.As(err, &coder) {
		if code := coder.StatusCode(); code > 0 {
			return code
		}
	}
	return http.StatusBadRequest
}
