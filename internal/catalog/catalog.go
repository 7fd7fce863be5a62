// Package catalog defines the inventory records curator reads from the
// management console and the summary counters it reports on.
package catalog

import (
	"strings"
	"time"
)

// State represents the categorization lifecycle of an inventory record.
type State string

const (
	// StateAwaitingCategorization marks records the console has not yet
	// categorized. Only these records are ever submitted.
	StateAwaitingCategorization State = "awaiting_categorization"
	// StateSubmitted marks records with a categorization request in flight.
	StateSubmitted State = "submitted"
	// StateCategorized marks records the console has already resolved.
	StateCategorized State = "categorized"
	// StateIgnored marks records an operator excluded on the console side.
	StateIgnored State = "ignored"
)

// Record is a single software title tracked by the console inventory.
type Record struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Publisher   string `json:"publisher"`
	State       State  `json:"state"`
	Installs    int    `json:"installs,omitempty"`
}

// Eligible reports whether the record may be submitted for categorization.
// Unknown states are treated as ineligible.
func (r Record) Eligible() bool {
	return r.State == StateAwaitingCategorization
}

// Label returns the best human-readable identifier for log lines and
// progress output.
func (r Record) Label() string {
	if name := strings.TrimSpace(r.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Key)
}

// Summary captures the console's categorization counters at a point in time.
type Summary struct {
	Uncategorized    int       `json:"uncategorized_count"`
	Total            int       `json:"total_count"`
	CatalogUpdatedAt time.Time `json:"catalog_updated_at"`
}
