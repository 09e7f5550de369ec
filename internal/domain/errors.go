package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyBodyParams is returned when a client stub is requested for a
	// method with more than one body parameter.
	ErrTooManyBodyParams = errors.New("more than one body parameter")
	ErrNestedArray       = errors.New("arrays of arrays are not supported")
	ErrOptionalPathParam = errors.New("path parameters cannot be optional")
	ErrUnknownModel      = errors.New("unknown model")
	ErrInvalidVerb       = errors.New("invalid http method")
	ErrUnsupportedType   = errors.New("unsupported type")
)

// MethodError ties a compile or extraction failure to the method it belongs to.
type MethodError struct {
	Service string
	Method  string
	Err     error
}

func (e *MethodError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("%s: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Service, e.Method, e.Err)
}

func (e *MethodError) Unwrap() error {
	return e.Err
}

// NewMethodError wraps err with the identity of m.
func NewMethodError(m *MethodDescriptor, err error) error {
	if err == nil {
		return nil
	}
	return &MethodError{Service: m.Service, Method: m.Name, Err: err}
}
