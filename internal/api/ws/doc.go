// Package ws implements the bridge's WebSocket transport.
//
// The Hub is a plain fan-out relay: a frame received from one client is
// written to every other connected client, never back to its sender. There is
// no routing or handshake-level protocol beyond the standard upgrade; text and
// binary frames pass through unchanged. Clients whose writes fail are dropped.
//
// Send, SendJSON and SendFrame are fire-and-forget clients: connect, write one
// frame, disconnect.
//
// Example Usage:
//
//	hub := ws.NewHub(ws.Options{Logger: logger})
//	router.GET("/*path", hub.HandleConnection)
//
//	_ = ws.Send(ctx, "ws://localhost:8765", `{"event":"trigger-test","channel":"default"}`)
package ws
