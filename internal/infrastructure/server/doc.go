// Package server wraps net/http servers that bind synchronously and shut down
// gracefully within a deadline.
package server
