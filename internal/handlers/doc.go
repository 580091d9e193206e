// Package handlers provides ready-made route handlers for the payloads the
// extension sends: plain notifications, base64 screenshots, raw uploads,
// page sources and cookie exports.
package handlers
