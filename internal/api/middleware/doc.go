// Package middleware provides the gin middleware stack of the HTTP bridge:
// CORS, per-IP and global rate limiting, request ids and access logging.
package middleware
