// Package errors defines the structured error type used across the Inkwell
// integration. Every failure surfaced from Setup carries one of the taxonomy
// types below so hosts can tell a bad configuration from a broken install.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the failure category of an error.
type ErrorType string

const (
	// ErrorTypeConfig covers malformed options, failed configuration
	// resolution and incompatible hosts.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeResolution means the component library could not be located.
	ErrorTypeResolution ErrorType = "resolution"
	// ErrorTypeAsset covers runtime templates and generated stylesheets.
	ErrorTypeAsset ErrorType = "asset"
	// ErrorTypeDownstream wraps failures reported by the watch or build
	// pipelines.
	ErrorTypeDownstream ErrorType = "downstream"
	ErrorTypeInternal   ErrorType = "internal"
)

// InkwellError is a structured error type with context.
type InkwellError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
	FilePath  string
}

// Error implements the error interface.
func (e *InkwellError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *InkwellError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *InkwellError) Is(target error) bool {
	var t *InkwellError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *InkwellError) WithContext(key string, value interface{}) *InkwellError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error refers to.
func (e *InkwellError) WithFile(filePath string) *InkwellError {
	e.FilePath = filePath

	return e
}

// WithComponent adds component context.
func (e *InkwellError) WithComponent(component string) *InkwellError {
	e.Component = component

	return e
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *InkwellError {
	return &InkwellError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewResolutionError creates a library resolution error.
func NewResolutionError(code, message string, cause error) *InkwellError {
	return &InkwellError{
		Type:    ErrorTypeResolution,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAssetError creates an asset generation error.
func NewAssetError(code, message string, cause error) *InkwellError {
	return &InkwellError{
		Type:    ErrorTypeAsset,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewDownstreamError creates an error for a failed pipeline.
func NewDownstreamError(code, message string, cause error) *InkwellError {
	return &InkwellError{
		Type:    ErrorTypeDownstream,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether any error in err's chain is an InkwellError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var ie *InkwellError
		if !errors.As(err, &ie) {
			return false
		}
		if ie.Type == errType {
			return true
		}
		err = ie.Cause
	}

	return false
}

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeConfigLoad       = "ERR_CONFIG_LOAD"
	ErrCodeIncompatibleHost = "ERR_INCOMPATIBLE_HOST"
	ErrCodeLibraryNotFound  = "ERR_LIBRARY_NOT_FOUND"
	ErrCodeComponentsDir    = "ERR_COMPONENTS_DIR"
	ErrCodeTemplateRead     = "ERR_TEMPLATE_READ"
	ErrCodeTemplateRender   = "ERR_TEMPLATE_RENDER"
	ErrCodeTemplateRegister = "ERR_TEMPLATE_REGISTER"
	ErrCodeStylesheetWrite  = "ERR_STYLESHEET_WRITE"
	ErrCodeThemeInvalid     = "ERR_THEME_INVALID"
	ErrCodeBuildFailed      = "ERR_BUILD_FAILED"
	ErrCodeWatchFailed      = "ERR_WATCH_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(field, path string) *InkwellError {
	return NewConfigError(ErrCodeInvalidPath, "invalid "+field+": "+path).
		WithContext("field", field)
}

// ErrPathTraversal creates a path traversal configuration error.
func ErrPathTraversal(field, path string) *InkwellError {
	return NewConfigError(ErrCodePathTraversal, field+" contains path traversal: "+path).
		WithContext("field", field)
}

// ErrLibraryNotFound creates the fatal error returned when the component
// library is not installed.
func ErrLibraryNotFound(importPath string, cause error) *InkwellError {
	return NewResolutionError(
		ErrCodeLibraryNotFound,
		"cannot resolve component library "+importPath,
		cause,
	)
}
