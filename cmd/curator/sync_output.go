package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"curator/internal/dispatch"
)

func printSyncSummary(out io.Writer, summary *dispatch.RunSummary, partial bool) {
	colorize := shouldColorize(out)
	title := "Categorization Pass"
	if summary.DryRun {
		title = "Categorization Pass (dry run)"
	}
	printSection(out, title, colorize)

	rows := [][]string{
		{"Candidates", strconv.Itoa(summary.Candidates)},
		{"Planned", strconv.Itoa(summary.Planned)},
		{"Attempted", strconv.Itoa(summary.Attempted)},
		{"Accepted", strconv.Itoa(summary.Accepted)},
		{"Rejected", strconv.Itoa(summary.Rejected)},
		{"Excluded", strconv.Itoa(summary.Excluded)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
	}
	if summary.Declined > 0 {
		rows = append(rows, []string{"Declined", strconv.Itoa(summary.Declined)})
	}
	rows = append(rows,
		[]string{"Uncategorized", formatUncategorized(summary)},
		[]string{"Resolved", formatResolved(summary)},
		[]string{"Elapsed", summary.Elapsed().Round(time.Second).String()},
	)
	if summary.CatalogSync != dispatch.SyncNotRequested {
		rows = append(rows, []string{"Catalog sync", string(summary.CatalogSync)})
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, 2))

	if partial {
		fmt.Fprintln(out, "Pass halted early; counts cover completed work only.")
	}
}

func formatUncategorized(summary *dispatch.RunSummary) string {
	if summary.UncategorizedAfter < 0 {
		return fmt.Sprintf("%d -> ?", summary.UncategorizedBefore)
	}
	return fmt.Sprintf("%d -> %d", summary.UncategorizedBefore, summary.UncategorizedAfter)
}

func formatResolved(summary *dispatch.RunSummary) string {
	if summary.UncategorizedAfter < 0 {
		return "unknown"
	}
	return strconv.Itoa(summary.Resolved)
}
