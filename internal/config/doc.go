// Package config loads, normalizes, and validates unimoji configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the icon
// cache location, the external uni/convert programs, worker pool sizing,
// and logging, so the reconciler, lookup service, and CLI discover settings
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
