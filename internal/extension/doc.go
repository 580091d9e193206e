// Package extension loads and activates the unpacked browser extension and
// hands it the project to import.
package extension
