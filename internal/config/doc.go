// Package config loads, normalizes, and validates curator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CURATOR_CONSOLE_URL and CURATOR_CONSOLE_TOKEN. The Config type centralizes
// every knob the CLI needs, so console credentials, submission limits, and
// exclusion rules are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
