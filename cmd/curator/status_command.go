package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/console"
	"curator/internal/history"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show console connectivity and the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			printSection(out, "Console", colorize)
			endpoint, err := console.NewConfigResolver(cfg).Resolve(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, statusLine("Endpoint", statusError, err.Error(), colorize))
			} else {
				detail := endpoint.BaseURL
				if endpoint.Site != "" {
					detail = fmt.Sprintf("%s (site %s)", endpoint.BaseURL, endpoint.Site)
				}
				fmt.Fprintln(out, statusLine("Endpoint", statusOK, detail, colorize))
				printConsoleSummary(cmd, cfg, endpoint, out, colorize)
			}

			fmt.Fprintln(out)
			printSection(out, "Last Run", colorize)
			printLastRun(cmd, cfg, out, colorize)
			return nil
		},
	}
}

func printConsoleSummary(cmd *cobra.Command, cfg *config.Config, endpoint console.Endpoint, out io.Writer, colorize bool) {
	client, err := console.New(endpoint, cfg.Console.APIToken, time.Duration(cfg.Console.RequestTimeout)*time.Second)
	if err != nil {
		fmt.Fprintln(out, statusLine("Connectivity", statusError, err.Error(), colorize))
		return
	}
	reqCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	summary, err := client.Summary(reqCtx)
	if err != nil {
		fmt.Fprintln(out, statusLine("Connectivity", statusWarn, err.Error(), colorize))
		return
	}
	fmt.Fprintln(out, statusLine("Connectivity", statusOK, "reachable", colorize))
	fmt.Fprintln(out, statusLine("Uncategorized", statusInfo, fmt.Sprintf("%d of %d records", summary.Uncategorized, summary.Total), colorize))
	if !summary.CatalogUpdatedAt.IsZero() {
		fmt.Fprintln(out, statusLine("Catalog updated", statusInfo, summary.CatalogUpdatedAt.UTC().Format(time.RFC3339), colorize))
	}
}

// printLastRun reports the newest journal entry. Journal trouble degrades to
// a warning line so status stays usable without the database.
func printLastRun(cmd *cobra.Command, cfg *config.Config, out io.Writer, colorize bool) {
	if !cfg.History.Enabled {
		fmt.Fprintln(out, statusLine("Journal", statusInfo, "disabled in config", colorize))
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		fmt.Fprintln(out, statusLine("Journal", statusWarn, err.Error(), colorize))
		return
	}
	defer store.Close()

	run, err := store.Latest(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, statusLine("Journal", statusWarn, err.Error(), colorize))
		return
	}
	if run == nil {
		fmt.Fprintln(out, statusLine("Journal", statusInfo, "no runs recorded", colorize))
		return
	}

	when := run.FinishedAt.UTC().Format(time.RFC3339)
	switch {
	case run.Status == history.StatusFailed:
		detail := "failed " + when
		if run.ErrorMessage != "" {
			detail += ": " + run.ErrorMessage
		}
		fmt.Fprintln(out, statusLine("Last run", statusError, detail, colorize))
	case run.DryRun:
		fmt.Fprintln(out, statusLine("Last run", statusOK, fmt.Sprintf("dry run %s, walked %d candidates", when, run.Attempted), colorize))
	default:
		fmt.Fprintln(out, statusLine("Last run", statusOK, fmt.Sprintf("completed %s, attempted %d, resolved %d", when, run.Attempted, run.Resolved), colorize))
	}
}
