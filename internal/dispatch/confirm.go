package dispatch

import (
	"context"

	"curator/internal/catalog"
)

// ConfirmFunc is consulted immediately before each submission attempt.
// Returning false skips the record without consuming quota. An error stops
// the pass.
type ConfirmFunc func(ctx context.Context, rec catalog.Record) (bool, error)

// AcceptAll approves every record.
func AcceptAll(context.Context, catalog.Record) (bool, error) {
	return true, nil
}
