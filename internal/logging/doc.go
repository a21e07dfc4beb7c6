// Package logging provides structured logging built on log/slog.
//
// It offers two output formats: a human-oriented console format used by the
// CLI and a JSON format for machine consumption. Typed attribute helpers
// (String, Int, Float64, Error, ...) keep call sites terse, and field name
// constants keep decision/event logging consistent across components.
package logging
