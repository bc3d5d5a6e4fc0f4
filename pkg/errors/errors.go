// Package errors provides a structured error system for SynthFS with error codes and categories.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a structured error code for SynthFS operations.
type ErrorCode string

// Error code constants organized by category.
const (
	// Configuration errors
	ErrCodeInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrCodeConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Namespace errors. The virtual namespace produces exactly two outcomes
	// for a request: the path does not resolve, or the access intent is not
	// read-only. There are no transient failures at this layer.
	ErrCodePathNotFound      ErrorCode = "PATH_NOT_FOUND"
	ErrCodeAccessDenied      ErrorCode = "ACCESS_DENIED"
	ErrCodeInvalidDescriptor ErrorCode = "INVALID_DESCRIPTOR"

	// Mount lifecycle errors
	ErrCodeMountFailed   ErrorCode = "MOUNT_FAILED"
	ErrCodeUnmountFailed ErrorCode = "UNMOUNT_FAILED"
	ErrCodeMountPoint    ErrorCode = "MOUNT_POINT"

	// Internal errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the general category of an error.
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryNamespace     ErrorCategory = "namespace"
	CategoryMount         ErrorCategory = "mount"
	CategoryInternal      ErrorCategory = "internal"
)

// SynthFSError represents a structured error with context and metadata.
type SynthFSError struct {
	Code     ErrorCode     `json:"code"`
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`

	// Path is the virtual path the failing request addressed, if any.
	Path string `json:"path,omitempty"`

	Component string    `json:"component,omitempty"`
	Operation string    `json:"operation,omitempty"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *SynthFSError) Error() string {
	if e.Component != "" {
		if e.Operation != "" {
			return fmt.Sprintf("[%s:%s] %s: %s", e.Component, e.Operation, e.Code, e.Message)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Component, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error wrapping compatibility.
func (e *SynthFSError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error (for errors.Is compatibility).
func (e *SynthFSError) Is(target error) bool {
	if synthErr, ok := target.(*SynthFSError); ok {
		return e.Code == synthErr.Code
	}
	return false
}

// String returns a detailed string representation for logging.
func (e *SynthFSError) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Code=%s", e.Code))
	parts = append(parts, fmt.Sprintf("Category=%s", e.Category))
	parts = append(parts, fmt.Sprintf("Message=%q", e.Message))

	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("Path=%q", e.Path))
	}
	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("Component=%s", e.Component))
	}
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation=%s", e.Operation))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause=%q", e.Cause.Error()))
	}

	return fmt.Sprintf("SynthFSError{%s}", strings.Join(parts, ", "))
}

// NewError creates a new SynthFS error with default values.
func NewError(code ErrorCode, message string) *SynthFSError {
	return &SynthFSError{
		Code:      code,
		Category:  GetCategory(code),
		Message:   message,
		Timestamp: time.Now(),
	}
}

// GetCategory determines the category based on the error code.
func GetCategory(code ErrorCode) ErrorCategory {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INVALID_CONFIG") || strings.HasPrefix(codeStr, "CONFIG_"):
		return CategoryConfiguration
	case strings.HasPrefix(codeStr, "PATH_") || strings.HasPrefix(codeStr, "ACCESS_") ||
		strings.HasPrefix(codeStr, "INVALID_DESCRIPTOR"):
		return CategoryNamespace
	case strings.HasPrefix(codeStr, "MOUNT_") || strings.HasPrefix(codeStr, "UNMOUNT_"):
		return CategoryMount
	default:
		return CategoryInternal
	}
}

// IsCode reports whether err is (or wraps) a SynthFSError carrying the given
// code. Protocol adapters use this to map namespace failures onto host error
// numbers.
func IsCode(err error, code ErrorCode) bool {
	var e *SynthFSError
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// WithPath records the virtual path the failing request addressed.
func (e *SynthFSError) WithPath(path string) *SynthFSError {
	e.Path = path
	return e
}

// WithComponent sets the component for an error.
func (e *SynthFSError) WithComponent(component string) *SynthFSError {
	e.Component = component
	return e
}

// WithOperation sets the operation for an error.
func (e *SynthFSError) WithOperation(operation string) *SynthFSError {
	e.Operation = operation
	return e
}

// WithCause sets the underlying cause.
func (e *SynthFSError) WithCause(cause error) *SynthFSError {
	e.Cause = cause
	return e
}
