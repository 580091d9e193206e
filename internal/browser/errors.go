package browser

import (
	"errors"
	"fmt"

	"github.com/chromedp/cdproto"
)

var (
	// ErrBinaryNotFound means no executable was found for the requested browser.
	ErrBinaryNotFound = errors.New("browser binary not found")
	// ErrUnsupportedBrowser is returned for browser names other than chrome, edge and chromium.
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	// ErrLaunch means the process could not be started or exited during startup.
	ErrLaunch = errors.New("browser launch failed")
	// ErrDevTools means the DevTools endpoint never became reachable.
	ErrDevTools = errors.New("devtools endpoint unavailable")
	// ErrNotStarted is returned by Driver calls after the session stopped.
	ErrNotStarted = errors.New("browser session not started")
)

// LaunchError wraps every failure of Session.Start. Kind is one of
// ErrBinaryNotFound, ErrUnsupportedBrowser, ErrLaunch or ErrDevTools.
type LaunchError struct {
	Browser string
	Kind    error
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Browser, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Browser, e.Kind, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsMethodNotFound reports whether err is a DevTools "method not found"
// error, returned by browsers that lack a domain.
func IsMethodNotFound(err error) bool {
	var cdpErr *cdproto.Error
	return errors.As(err, &cdpErr) && cdpErr.Code == -32601
}
