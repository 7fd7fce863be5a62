package dispatch

import "time"

// SyncOutcome records what happened to the trailing catalog sync request.
type SyncOutcome string

const (
	// SyncNotRequested means the pass did not ask for a catalog sync.
	SyncNotRequested SyncOutcome = ""
	// SyncAccepted means the console accepted the sync request.
	SyncAccepted SyncOutcome = "accepted"
	// SyncRejected means the console declined, usually because of its own
	// rate limit on manual syncs.
	SyncRejected SyncOutcome = "rejected"
	// SyncFailed means the request itself could not be made.
	SyncFailed SyncOutcome = "failed"
	// SyncSimulated means a dry run skipped the real request.
	SyncSimulated SyncOutcome = "simulated"
)

// RunSummary is the machine-readable record of one categorization pass.
// When a pass fails partway through, the summary still reflects the work
// that completed before the failure.
type RunSummary struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	DryRun         bool      `json:"dry_run"`
	Limit          int       `json:"limit"`

	// UncategorizedBefore and UncategorizedAfter are the console's awaiting
	// counts around the pass. UncategorizedAfter is -1 when the closing
	// snapshot could not be captured.
	UncategorizedBefore int `json:"uncategorized_before"`
	UncategorizedAfter  int `json:"uncategorized_after"`
	// Resolved is before minus after. Other systems feed the console, so
	// it can be negative when records arrive mid-pass. It is meaningful
	// only when UncategorizedAfter is not -1.
	Resolved int `json:"resolved"`

	Candidates int `json:"candidates"`
	Planned    int `json:"planned"`
	Attempted  int `json:"attempted"`
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	Excluded   int `json:"excluded"`
	Skipped    int `json:"skipped"`
	Declined   int `json:"declined"`

	CatalogSync SyncOutcome `json:"catalog_sync,omitempty"`
}

// Elapsed returns the wall-clock duration of the pass.
func (s *RunSummary) Elapsed() time.Duration {
	if s == nil || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
