package app

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned by Start while the app is already starting or running.
var ErrInvalidState = errors.New("app: invalid state")

// ConfigurationError reports a required import that could not be used.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "app: configuration: " + e.Reason
	}
	return fmt.Sprintf("app: configuration: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// BrowserLaunchError reports a browser session that failed to start. The
// bridge has already been stopped when it is returned.
type BrowserLaunchError struct {
	Err error
}

func (e *BrowserLaunchError) Error() string {
	return fmt.Sprintf("app: browser launch: %v", e.Err)
}

func (e *BrowserLaunchError) Unwrap() error {
	return e.Err
}
