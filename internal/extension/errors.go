package extension

import (
	"errors"
	"fmt"
)

var (
	// ErrManifest means manifest.json is missing or unreadable.
	ErrManifest = errors.New("extension manifest invalid")
	// ErrNotActivated means the extension never showed up as a running target.
	ErrNotActivated = errors.New("extension not activated")
)

// ActivationError reports a failed activation.
type ActivationError struct {
	Path        string
	ExtensionID string
	Kind        error
	Err         error
}

func (e *ActivationError) Error() string {
	msg := fmt.Sprintf("activate %s", e.Path)
	if e.ExtensionID != "" {
		msg += " (" + e.ExtensionID + ")"
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ActivationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
