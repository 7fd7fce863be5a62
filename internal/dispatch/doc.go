// Package dispatch runs categorization passes: it snapshots the console's
// uncategorized count, walks the candidate list once in source order,
// submits categorization requests up to the configured limit, and snapshots
// the count again to report how many records the pass resolved.
//
// A pass is strictly sequential. One candidate is fully handled before the
// next is considered, and a record gets at most one submission attempt per
// run. The console does not tolerate concurrent categorization requests,
// and sequential ordering is what makes the progress estimate meaningful.
package dispatch
