// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Components receive a *Logger and scope it with Named, so bridge, ws, browser
// and app output can be told apart in a single stream.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("bridge starting", zap.Int("http_port", 5001))
//	logger.Error("browser launch failed", zap.Error(err))
package logging
