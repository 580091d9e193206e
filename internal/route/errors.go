package route

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidPath = errors.New("route path must start with /")
	ErrNilHandler  = errors.New("route handler cannot be nil")
)

// HandlerError lets a handler pick the status of its error envelope.
type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e *HandlerError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Fail returns a HandlerError with the given status and formatted message.
func Fail(status int, format string, args ...any) *HandlerError {
	return &HandlerError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// StatusOf maps a handler error to the HTTP status of its envelope.
func StatusOf(err error) int {
	var he *HandlerError
	if errors.As(err, &he) && he.Status >= 400 && he.Status <= 599 {
		return he.Status
	}
	return http.StatusInternalServerError
}
