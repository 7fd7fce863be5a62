// Package logging assembles the structured slog loggers and formatting
// helpers used across curator commands.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes shared field-name constants so every
// component tags run IDs, record keys, and exclusion rules the same way.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape and routing as the rest of the tool.
package logging
