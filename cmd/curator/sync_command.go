package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/console"
	"curator/internal/dispatch"
	"curator/internal/exclusions"
	"curator/internal/history"
	"curator/internal/logging"
	"curator/internal/notifications"
	"curator/internal/runlock"
)

type syncInvocation struct {
	limit       int
	dryRun      bool
	confirmEach bool
	syncCatalog bool
	jsonOut     bool
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		limitFlag   int
		dryRun      bool
		confirmEach bool
		syncCatalog bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Submit uncategorized inventory records for categorization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			opts := syncInvocation{
				limit:       cfg.Sync.Limit,
				dryRun:      dryRun,
				confirmEach: confirmEach,
				syncCatalog: cfg.Sync.TriggerCatalogSync,
				jsonOut:     jsonOut,
			}
			if cmd.Flags().Changed("limit") {
				opts.limit = limitFlag
			}
			if cmd.Flags().Changed("sync-catalog") {
				opts.syncCatalog = syncCatalog
			}
			return runSync(cmd, cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Cap submissions for this pass (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Walk the pass without submitting anything")
	cmd.Flags().BoolVar(&confirmEach, "confirm", false, "Ask before each submission")
	cmd.Flags().BoolVar(&syncCatalog, "sync-catalog", false, "Request a console catalog sync after the pass")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run summary as JSON")
	return cmd
}

func runSync(cmd *cobra.Command, cfg *config.Config, opts syncInvocation) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	endpoint, err := console.NewConfigResolver(cfg).Resolve(runCtx)
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	logger, logPath, err := logging.NewRunLogger(cfg)
	if err != nil {
		return err
	}
	cliLogger := logging.NewComponentLogger(logger, "cli")
	if err := pointCurrentLog(cfg.Paths.LogDir, logPath); err != nil {
		cliLogger.Warn("could not update curator.log pointer", logging.Error(err))
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "curator-*.log", Exclude: []string{logPath}},
	)

	cliLogger.Info("sync starting",
		logging.String("console_url", endpoint.BaseURL),
		logging.String("log_file", logPath),
		logging.Bool("dry_run", opts.dryRun),
	)

	client, err := console.New(endpoint, cfg.Console.APIToken, time.Duration(cfg.Console.RequestTimeout)*time.Second)
	if err != nil {
		return err
	}

	notifier := notifications.NewService(cfg)
	useBar := !opts.jsonOut && !opts.confirmEach && shouldColorize(out)
	progress := newProgressRenderer(out, cliLogger, opts.jsonOut, useBar)

	options := dispatch.Options{
		Limit:       opts.limit,
		DryRun:      opts.dryRun,
		SyncCatalog: opts.syncCatalog,
		Rules:       exclusions.NewRuleSet(cfg.Sync.IgnoreTitles, cfg.Sync.IgnorePublishers),
		OnPlan: func(candidates, planned int) {
			progress.plan(candidates, planned)
			if err := notifier.NotifySyncStarted(runCtx, candidates); err != nil {
				cliLogger.Debug("start notification failed", logging.Error(err))
			}
		},
		OnProgress: progress.observe,
	}
	if opts.confirmEach {
		options.Confirm = newPromptConfirm(cmd)
	}

	dispatcher, err := dispatch.New(client, options, logger)
	if err != nil {
		return err
	}

	summary, runErr := dispatcher.Run(runCtx)
	progress.finish()

	// The run context may already be cancelled; journaling and
	// notifications still get a short window to complete.
	cleanupCtx, cancelCleanup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelCleanup()

	if summary != nil {
		recordRun(cleanupCtx, cfg, cliLogger, summary, runErr)
	}
	notifyOutcome(cleanupCtx, notifier, cliLogger, summary, runErr)

	if summary != nil {
		if opts.jsonOut {
			if err := writeJSON(cmd, summary); err != nil {
				return err
			}
		} else {
			printSyncSummary(out, summary, runErr != nil)
		}
	}

	return runErr
}

func newPromptConfirm(cmd *cobra.Command) dispatch.ConfirmFunc {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	return func(ctx context.Context, rec catalog.Record) (bool, error) {
		fmt.Fprintf(out, "Submit %q (%s)? [y/N] ", rec.Label(), rec.Key)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

// recordRun journals the pass. Journal trouble never fails a run that
// already talked to the console.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, summary *dispatch.RunSummary, runErr error) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run journal unavailable", "journal_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check data_dir permissions or run 'curator history clear'"),
			logging.String(logging.FieldImpact, "this run will not appear in curator history"),
		)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(ctx, summary, runErr); err != nil {
		logging.WarnWithContext(logger, "could not record run", "journal_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in curator history"),
		)
		return
	}
	if removed, err := store.Prune(ctx, cfg.History.KeepRuns); err != nil {
		logger.Warn("journal prune failed", logging.Error(err))
	} else if removed > 0 {
		logger.Debug("journal pruned", logging.Int64("removed_runs", removed))
	}
}

func notifyOutcome(ctx context.Context, notifier notifications.Service, logger *slog.Logger, summary *dispatch.RunSummary, runErr error) {
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return
		}
		if err := notifier.NotifyError(ctx, runErr, "categorization sync"); err != nil {
			logger.Debug("error notification failed", logging.Error(err))
		}
		return
	}
	if err := notifier.NotifySyncCompleted(ctx, summary); err != nil {
		logger.Debug("completion notification failed", logging.Error(err))
	}
}

// pointCurrentLog keeps log_dir/curator.log aimed at the newest run log.
func pointCurrentLog(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	pointer := filepath.Join(logDir, "curator.log")
	if err := os.Remove(pointer); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace log pointer: %w", err)
	}
	if err := os.Symlink(target, pointer); err == nil {
		return nil
	}
	if err := os.Link(target, pointer); err != nil {
		return fmt.Errorf("point %s at %s: %w", pointer, target, err)
	}
	return nil
}
