// Package config loads runtime configuration from the environment
// (kelseyhightower/envconfig) and optionally overlays a YAML, TOML or JSON
// file on top of it. Converters turn the result into the bridge, browser,
// app and logger configurations.
package config
