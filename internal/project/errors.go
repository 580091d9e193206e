package project

import (
	"errors"
	"fmt"
)

// ErrInvalidProject matches every ValidationError
var ErrInvalidProject = errors.New("invalid project file")

// ValidationError reports why a project file was rejected.
type ValidationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", ErrInvalidProject, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrInvalidProject and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidProject}
	}
	return []error{ErrInvalidProject, e.Err}
}

func invalid(path, reason string, err error) *ValidationError {
	return &ValidationError{Path: path, Reason: reason, Err: err}
}
