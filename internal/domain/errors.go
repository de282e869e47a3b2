package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeConversion        ErrorType = "conversion_failed"
	ErrorTypeRender            ErrorType = "render_failed"
	ErrorTypeDeviceUnavailable ErrorType = "device_unavailable"
	ErrorTypePrint             ErrorType = "print_failed"
	ErrorTypeCancelled         ErrorType = "cancelled"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeConfig            ErrorType = "config"
	ErrorTypeIO                ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func UnsupportedFormatError(ext string) *DomainError {
	if ext == "" {
		ext = "(none)"
	}
	return NewError(ErrorTypeUnsupportedFormat, fmt.Sprintf("unsupported file format: %s", ext), nil)
}

func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

func RenderError(path string, err error) *DomainError {
	return NewError(ErrorTypeRender, fmt.Sprintf("failed to render text file %s", path), err)
}

func DeviceUnavailableError(message string, err error) *DomainError {
	return NewError(ErrorTypeDeviceUnavailable, message, err)
}

func PrintError(message string, err error) *DomainError {
	return NewError(ErrorTypePrint, message, err)
}

func CancelledError(err error) *DomainError {
	return NewError(ErrorTypeCancelled, "print job cancelled", err)
}

func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// TypeOf returns the ErrorType of the outermost DomainError in err's chain,
// or "" when err carries none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// IsType reports whether err carries a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsCancellation reports whether err stems from a cancelled job, either
// already classified or as a raw context cancellation.
func IsCancellation(err error) bool {
	return IsType(err, ErrorTypeCancelled) || errors.Is(err, context.Canceled)
}
