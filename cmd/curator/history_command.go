package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded categorization runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run journal is disabled in config")
				return nil
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeHistoryJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.FinishedAt.UTC().Format(time.RFC3339),
					string(run.Status),
					yesNo(run.DryRun),
					strconv.Itoa(run.Attempted),
					strconv.Itoa(run.Accepted),
					strconv.Itoa(run.Rejected),
					formatRunResolved(run),
				})
			}
			headers := []string{"ID", "Finished", "Status", "Dry", "Attempted", "Accepted", "Rejected", "Resolved"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 1, 5, 6, 7, 8))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output runs as JSON")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run journal is disabled in config")
				return nil
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs\n", count)
			return nil
		},
	}
}

type jsonRun struct {
	ID                  int64  `json:"id"`
	RunID               string `json:"run_id"`
	StartedAt           string `json:"started_at"`
	FinishedAt          string `json:"finished_at"`
	Status              string `json:"status"`
	Error               string `json:"error,omitempty"`
	DryRun              bool   `json:"dry_run"`
	UncategorizedBefore int    `json:"uncategorized_before"`
	UncategorizedAfter  int    `json:"uncategorized_after"`
	Resolved            int    `json:"resolved"`
	Candidates          int    `json:"candidates"`
	Attempted           int    `json:"attempted"`
	Accepted            int    `json:"accepted"`
	Rejected            int    `json:"rejected"`
	Excluded            int    `json:"excluded"`
	Skipped             int    `json:"skipped"`
	Declined            int    `json:"declined"`
	CatalogSync         string `json:"catalog_sync,omitempty"`
}

func writeHistoryJSON(cmd *cobra.Command, runs []*history.Run) error {
	items := make([]jsonRun, 0, len(runs))
	for _, run := range runs {
		items = append(items, jsonRun{
			ID:                  run.ID,
			RunID:               run.RunID,
			StartedAt:           run.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt:          run.FinishedAt.UTC().Format(time.RFC3339),
			Status:              string(run.Status),
			Error:               run.ErrorMessage,
			DryRun:              run.DryRun,
			UncategorizedBefore: run.UncategorizedBefore,
			UncategorizedAfter:  run.UncategorizedAfter,
			Resolved:            run.Resolved,
			Candidates:          run.Candidates,
			Attempted:           run.Attempted,
			Accepted:            run.Accepted,
			Rejected:            run.Rejected,
			Excluded:            run.Excluded,
			Skipped:             run.Skipped,
			Declined:            run.Declined,
			CatalogSync:         run.CatalogSync,
		})
	}
	return writeJSON(cmd, map[string]any{"runs": items})
}

func formatRunResolved(run *history.Run) string {
	if run.UncategorizedAfter < 0 {
		return "-"
	}
	return strconv.Itoa(run.Resolved)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
