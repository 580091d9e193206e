// Package route holds the path-to-handler registry used by the HTTP bridge.
//
// A Registry is an ordinary value owned by the application: build one,
// register handlers on it and hand it to the bridge. Handlers receive a
// Payload, which is either a decoded JSON value or the raw body bytes, and a
// Meta describing the request.
//
// Example Usage:
//
//	routes := route.NewRegistry()
//	routes.MustRegister("/receive", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
//		return "ok", nil
//	})
package route
