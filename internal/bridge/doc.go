// Package bridge runs the HTTP and WebSocket transports a browser extension
// talks to.
//
// Listeners are bound synchronously by Start, so a port conflict is reported
// as a *TransportStartError in either mode. In background mode each transport
// is served on its own worker and Start returns immediately. In foreground
// mode the HTTP transport (or the WebSocket transport when it is the only one)
// runs on the calling goroutine and Start returns when the bridge stops.
//
// Example Usage:
//
//	registry := route.NewRegistry()
//	registry.MustRegister("/receive", handlers.Receive(logger))
//
//	b := bridge.New(bridge.Config{Host: "localhost", HTTPPort: 5001, WSPort: 8765,
//		Requests: true, WebSocket: true, OnBackground: true},
//		bridge.WithRegistry(registry), bridge.WithLogger(logger))
//	handle, err := b.Start(ctx)
//	...
//	defer handle.Stop(context.Background())
package bridge
