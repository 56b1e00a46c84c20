// Package logging assembles structured slog loggers and formatting helpers used
// across unimoji.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including size-based rotation of the log file), and exposes
// standardized field keys so the reconciler and lookup service tag log lines
// the same way. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
