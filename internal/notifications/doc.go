// Package notifications delivers sync milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Completion notices can be gated on a minimum attempt count so
// scheduled runs that find nothing to do stay quiet.
//
// Extend this package if you need alternative transports; the sync command
// depends only on the simple Service interface.
package notifications
