// Package main is the runyx command line.
//
// It runs the local bridge that browser automation workflows talk to: an
// HTTP request bus and a WebSocket broadcast hub, optionally together with a
// managed Chromium family browser and the runyx extension.
//
// Commands:
//
//	runyx run      import a project, start the bridge, launch the browser
//	runyx bridge   start only the bridge transports
//	runyx send     send one message to a running WebSocket hub
//	runyx version  print the build version
//
// Configuration:
//   - Environment variables (RUNYX_*, LOG_*, RATE_LIMIT_*, METRICS_*)
//   - A YAML, TOML or JSON file passed with --config (overrides env)
//   - CLI flags (override everything)
//
// Usage:
//
//	# Bridge only, development logging
//	runyx bridge --dev --http-port 5001 --ws-port 8765
//
//	# Full app with a project import
//	runyx run --extension ./extension --import ./project.json
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
