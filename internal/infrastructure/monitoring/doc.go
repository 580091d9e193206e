/*
Package monitoring provides Prometheus metrics for the bridge.

# Overview

Metrics tracks HTTP dispatch (count, latency, body size per route), WebSocket
activity (connected clients, frames in and out, dropped clients) and which
transports are serving. Every Metrics value owns a private registry.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
