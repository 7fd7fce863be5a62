// Package console is the client surface for the inventory management
// console: listing records that await categorization, reading summary
// counters, submitting categorization requests, and triggering catalog
// syncs.
//
// The Service interface is what the sync engine depends on; Client is the
// HTTP implementation. Endpoint discovery is injected through the Resolver
// interface so callers decide whether the endpoint comes from static
// configuration, the environment, or somewhere else entirely.
//
// Errors carry sentinel markers (ErrNoEndpoint, ErrUnreachable,
// ErrSubmission) so callers can classify failures without string matching.
package console
