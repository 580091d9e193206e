// Package http serves a route.Registry over HTTP.
//
// Every request that misses the engine's built-in routes falls through to the
// Dispatcher, which looks the path up in the registry, decodes the body into a
// route.Payload and wraps the handler result:
//
//	200 {"ok": true,  "result": <value>}
//	4xx/5xx {"ok": false, "error": "<message>"}
//
// OPTIONS on a registered path answers 204 with permissive CORS headers.
package http
