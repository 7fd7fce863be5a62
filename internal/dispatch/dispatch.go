package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"curator/internal/catalog"
	"curator/internal/console"
	"curator/internal/exclusions"
	"curator/internal/logging"
)

// ErrConfig marks invalid run options, rejected before any console call.
var ErrConfig = errors.New("configuration error")

// Options control a single categorization pass.
type Options struct {
	// Limit caps submission attempts for the pass. Values above
	// RequestCeiling are clamped; values below one are invalid.
	Limit int
	// DryRun simulates submissions and the catalog sync without mutating
	// console state. Summary snapshots are still fetched.
	DryRun bool
	// SyncCatalog requests a console catalog refresh after the pass.
	SyncCatalog bool
	// Rules excludes records from submission. Nil disables exclusion.
	Rules *exclusions.RuleSet
	// Confirm is consulted before each submission. Nil accepts everything.
	Confirm ConfirmFunc
	// OnPlan runs once after the candidate list is fetched, before any
	// submission, so callers can announce the workload. Nil disables it.
	OnPlan func(candidates, planned int)
	// OnProgress receives one event per submission attempt. Nil disables
	// progress reporting.
	OnProgress ProgressFunc
}

// Dispatcher runs categorization passes against one console.
type Dispatcher struct {
	service console.Service
	opts    Options
	logger  *slog.Logger
}

// New validates opts and builds a dispatcher.
func New(service console.Service, opts Options, logger *slog.Logger) (*Dispatcher, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: console service is required", ErrConfig)
	}
	if opts.Limit < 1 {
		return nil, fmt.Errorf("%w: sync limit must be positive", ErrConfig)
	}
	opts.Limit = ClampLimit(opts.Limit)
	if opts.Confirm == nil {
		opts.Confirm = AcceptAll
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		service: service,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "dispatch"),
	}, nil
}

// Run executes one categorization pass. When the pass fails after the
// opening snapshot, the returned summary reflects the work that completed
// before the failure, alongside the error.
func (d *Dispatcher) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:              uuid.NewString(),
		StartedAt:          time.Now().UTC(),
		DryRun:             d.opts.DryRun,
		Limit:              d.opts.Limit,
		UncategorizedAfter: -1,
	}
	logger := d.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	logger.Info("starting categorization pass",
		logging.Int("limit", d.opts.Limit),
		logging.Bool("dry_run", d.opts.DryRun),
		logging.Int("exclusion_rules", d.opts.Rules.Len()),
	)

	before, err := d.service.Summary(ctx)
	if err != nil {
		return nil, err
	}
	summary.UncategorizedBefore = before.Uncategorized

	candidates, err := d.service.ListUncategorized(ctx)
	if err != nil {
		return nil, err
	}
	summary.Candidates = len(candidates)

	planned := EffectiveLimit(len(candidates), d.opts.Limit)
	summary.Planned = planned
	estimator := NewEstimator(planned)

	logger.Info("candidate list fetched",
		logging.Int("candidates", len(candidates)),
		logging.Int("planned", planned),
		logging.Int("uncategorized", before.Uncategorized),
	)
	if d.opts.OnPlan != nil {
		d.opts.OnPlan(len(candidates), planned)
	}

	fatal := d.runPass(ctx, logger, summary, candidates, planned, estimator)

	if err := d.captureAfter(ctx, logger, summary, fatal != nil); err != nil && fatal == nil {
		fatal = err
	}

	if fatal == nil && d.opts.SyncCatalog {
		d.triggerCatalogSync(ctx, logger, summary)
	}

	summary.FinishedAt = time.Now().UTC()
	summary.ElapsedSeconds = summary.FinishedAt.Sub(summary.StartedAt).Seconds()

	d.logCompletion(logger, summary, fatal)
	return summary, fatal
}

func (d *Dispatcher) runPass(ctx context.Context, logger *slog.Logger, summary *RunSummary, candidates []catalog.Record, planned int, estimator *Estimator) error {
	for i, rec := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if summary.Attempted >= planned {
			logger.Info("submission quota reached",
				logging.Int("attempted", summary.Attempted),
				logging.Int("unprocessed", len(candidates)-i),
			)
			return nil
		}
		if strings.TrimSpace(rec.Key) == "" {
			summary.Skipped++
			logger.Warn("skipping record without a key",
				logging.String(logging.FieldRecordTitle, rec.Label()),
			)
			continue
		}
		// The listing should only serve awaiting records, but a record in
		// any other state is never submitted.
		if !rec.Eligible() {
			summary.Skipped++
			logger.Warn("skipping record in unexpected state",
				logging.String(logging.FieldRecordKey, rec.Key),
				logging.String(logging.FieldRecordTitle, rec.Label()),
				logging.Any(logging.FieldRecordState, rec.State),
			)
			continue
		}
		if rule, ok := d.opts.Rules.Match(rec); ok {
			summary.Excluded++
			logger.Info("record excluded from submission",
				logging.String(logging.FieldRecordKey, rec.Key),
				logging.String(logging.FieldRecordTitle, rec.Label()),
				logging.String(logging.FieldRule, rule.Pattern),
				logging.String(logging.FieldRuleField, string(rule.Field)),
			)
			continue
		}

		proceed, err := d.opts.Confirm(ctx, rec)
		if err != nil {
			return fmt.Errorf("confirmation aborted: %w", err)
		}
		if !proceed {
			summary.Declined++
			logger.Info("submission declined",
				logging.String(logging.FieldRecordKey, rec.Key),
				logging.String(logging.FieldRecordTitle, rec.Label()),
			)
			continue
		}

		index := summary.Attempted + 1
		d.emitProgress(estimator, index, planned, rec)

		code, err := d.submit(ctx, rec)
		if err != nil {
			logging.ErrorWithContext(logger, "submission channel failed", "submission_channel_failed",
				logging.Error(err),
				logging.String(logging.FieldRecordKey, rec.Key),
				logging.Int(logging.FieldCandidateIndex, index),
				logging.String(logging.FieldErrorHint, "verify console availability and the API token"),
			)
			return err
		}
		// A call that never completed is not an attempt, so the counter
		// moves only after the console answers.
		summary.Attempted = index
		estimator.Observe()

		if code.Accepted() {
			summary.Accepted++
			msg := "categorization request accepted"
			if d.opts.DryRun {
				msg = "categorization request simulated"
			}
			logger.Info(msg,
				logging.String(logging.FieldRecordKey, rec.Key),
				logging.String(logging.FieldRecordTitle, rec.Label()),
				logging.Int(logging.FieldCandidateIndex, index),
				logging.Int(logging.FieldCandidateTotal, planned),
			)
			continue
		}
		summary.Rejected++
		logging.WarnWithContext(logger, "console rejected categorization request", "submission_rejected",
			logging.String(logging.FieldRecordKey, rec.Key),
			logging.String(logging.FieldRecordTitle, rec.Label()),
			logging.Int(logging.FieldResultCode, int(code)),
			logging.String(logging.FieldErrorHint, "the record stays uncategorized; a later pass may retry it"),
		)
	}
	return nil
}

func (d *Dispatcher) submit(ctx context.Context, rec catalog.Record) (console.ResultCode, error) {
	if d.opts.DryRun {
		return 0, nil
	}
	// Cancellation takes effect between candidates; a submission already
	// in flight runs to completion, bounded by the client's request
	// timeout.
	return d.service.SubmitCategorization(context.WithoutCancel(ctx), rec.Key)
}

func (d *Dispatcher) emitProgress(estimator *Estimator, index, total int, rec catalog.Record) {
	if d.opts.OnProgress == nil {
		return
	}
	event := Event{
		Index:       index,
		Total:       total,
		Key:         rec.Key,
		DisplayName: rec.Label(),
	}
	if eta, ok := estimator.Remaining(); ok {
		event.ETA = eta
		event.HasETA = true
	}
	d.opts.OnProgress(event)
}

// captureAfter takes the closing summary snapshot. When the pass was cut
// short the snapshot is best effort: its failure is logged, not returned,
// and a cancelled context is replaced so the snapshot can still be taken.
func (d *Dispatcher) captureAfter(ctx context.Context, logger *slog.Logger, summary *RunSummary, bestEffort bool) error {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	after, err := d.service.Summary(ctx)
	if err != nil {
		if bestEffort {
			logger.Warn("could not capture closing summary", logging.Error(err))
			return nil
		}
		return err
	}
	summary.UncategorizedAfter = after.Uncategorized
	summary.Resolved = summary.UncategorizedBefore - after.Uncategorized
	if summary.Resolved < 0 {
		logger.Warn("uncategorized count grew during the pass",
			logging.Int("resolved", summary.Resolved),
			logging.Alert("new records arrived mid-pass"),
		)
	}
	return nil
}

func (d *Dispatcher) triggerCatalogSync(ctx context.Context, logger *slog.Logger, summary *RunSummary) {
	if d.opts.DryRun {
		summary.CatalogSync = SyncSimulated
		logger.Info("catalog sync request simulated")
		return
	}
	code, err := d.service.RequestCatalogSync(ctx)
	switch {
	case err != nil:
		summary.CatalogSync = SyncFailed
		logging.WarnWithContext(logger, "catalog sync request failed", "catalog_sync_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the console catalog will refresh on its own schedule"),
		)
	case code.Accepted():
		summary.CatalogSync = SyncAccepted
		logger.Info("catalog sync requested")
	default:
		summary.CatalogSync = SyncRejected
		logging.WarnWithContext(logger, "console declined catalog sync", "catalog_sync_rejected",
			logging.Int(logging.FieldResultCode, int(code)),
			logging.String(logging.FieldErrorHint, "manual catalog syncs are rate limited by the console"),
		)
	}
}

func (d *Dispatcher) logCompletion(logger *slog.Logger, summary *RunSummary, fatal error) {
	counts := []logging.Attr{
		logging.Int("attempted", summary.Attempted),
		logging.Int("accepted", summary.Accepted),
		logging.Int("rejected", summary.Rejected),
		logging.Int("excluded", summary.Excluded),
		logging.Int("skipped", summary.Skipped),
	}
	if summary.Declined > 0 {
		counts = append(counts, logging.Int("declined", summary.Declined))
	}
	attrs := []logging.Attr{
		logging.Group("counts", counts...),
		logging.Int("resolved", summary.Resolved),
		logging.Duration("elapsed", summary.Elapsed()),
	}
	if summary.CatalogSync != SyncNotRequested {
		attrs = append(attrs, logging.String("catalog_sync", string(summary.CatalogSync)))
	}
	if fatal != nil {
		logging.ErrorWithContext(logger, "categorization pass failed", "pass_failed",
			append(attrs, logging.Error(fatal))...,
		)
		return
	}
	logger.Info("categorization pass complete", logging.Args(attrs...)...)
}
