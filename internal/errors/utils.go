package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating an InkwellError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *InkwellError {
	if err == nil {
		return nil
	}

	// Keep the context of an existing InkwellError so callers further up
	// still see the original file and component.
	var ie *InkwellError
	if errors.As(err, &ie) {
		return &InkwellError{
			Type:      errType,
			Code:      code,
			Message:   message,
			Cause:     ie,
			Context:   ie.Context,
			Component: ie.Component,
			FilePath:  ie.FilePath,
		}
	}

	return &InkwellError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *InkwellError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// WrapAsset wraps an error as an asset error with file context
func WrapAsset(err error, code, message, filePath string) *InkwellError {
	ie := Wrap(err, ErrorTypeAsset, code, message)
	if ie != nil && filePath != "" {
		ie.FilePath = filePath
	}
	return ie
}

// WrapDownstream wraps a pipeline failure
func WrapDownstream(err error, code, pipeline string) *InkwellError {
	ie := Wrap(err, ErrorTypeDownstream, code, pipeline+" pipeline failed")
	if ie != nil {
		ie.Component = pipeline
	}
	return ie
}
