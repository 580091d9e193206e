package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned by Start when no transport is enabled.
	ErrConfiguration = errors.New("bridge: invalid configuration")
	// ErrAlreadyRunning is returned by Start while a previous start is live.
	ErrAlreadyRunning = errors.New("bridge: already running")
)

// TransportStartError reports a transport that could not bind its address.
type TransportStartError struct {
	Transport string
	Addr      string
	Err       error
}

func (e *TransportStartError) Error() string {
	return fmt.Sprintf("bridge: start %s transport on %s: %v", e.Transport, e.Addr, e.Err)
}

func (e *TransportStartError) Unwrap() error {
	return e.Err
}
