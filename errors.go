// Package gemmcheck structured error types for harness failures
package gemmcheck

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// A buffer is too short for the dimensions and strides claimed for it
	ErrTypeInvalidDimension ErrorType = iota
	// Kernel output disagrees with the reference
	ErrTypeMismatch
	// Element type is not provided by a kernel table or was compiled out
	ErrTypeUnsupported
	// Suite configuration errors
	ErrTypeConfig
)

// Error represents a structured harness error with context
type Error struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Elem    string // Element type short name, if known
	Shape   string // Shape tuple, if known
	Index   int    // Offending element index, -1 if not applicable
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("gemmcheck %s error in %s: %s", e.Type, e.Op, e.Message)
	if e.Elem != "" || e.Shape != "" {
		msg += fmt.Sprintf(" [%s %s", e.Elem, e.Shape)
		if e.Index >= 0 {
			msg += fmt.Sprintf(" index %d", e.Index)
		}
		msg += "]"
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidDimension:
		return "InvalidDimension"
	case ErrTypeMismatch:
		return "Mismatch"
	case ErrTypeUnsupported:
		return "Unsupported"
	case ErrTypeConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// NewInvalidDimensionError creates a length/stride assertion error
func NewInvalidDimensionError(op string, message string) error {
	return &Error{
		Type:    ErrTypeInvalidDimension,
		Op:      op,
		Message: message,
		Index:   -1,
	}
}

// NewMismatchError identifies the element where kernel and reference disagree
func NewMismatchError(op string, elem Type, shape Shape, index int, message string) error {
	return &Error{
		Type:    ErrTypeMismatch,
		Op:      op,
		Message: message,
		Elem:    elem.String(),
		Shape:   shape.String(),
		Index:   index,
	}
}

// NewUnsupportedError creates an error for an element type with no kernel
func NewUnsupportedError(op string, elem Type) error {
	return &Error{
		Type:    ErrTypeUnsupported,
		Op:      op,
		Message: "element type not supported",
		Elem:    elem.String(),
		Index:   -1,
	}
}

// NewConfigError creates a configuration error
func NewConfigError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeConfig,
		Op:      op,
		Message: message,
		Index:   -1,
		Err:     err,
	}
}

// isType walks the chain with errors.As, so wrapping through errors.Wrap
// or fmt.Errorf("%w") keeps the category.
func isType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsInvalidDimension checks if an error is a length/stride assertion failure
func IsInvalidDimension(err error) bool {
	return isType(err, ErrTypeInvalidDimension)
}

// IsMismatch checks if an error is a result mismatch
func IsMismatch(err error) bool {
	return isType(err, ErrTypeMismatch)
}

// IsUnsupported checks if an error is an unsupported element type error
func IsUnsupported(err error) bool {
	return isType(err, ErrTypeUnsupported)
}

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return isType(err, ErrTypeConfig)
}
