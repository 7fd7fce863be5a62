package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
	"curator/internal/dispatch"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current journal schema. Bump this when the schema
// changes; incompatible journals must be cleared or deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the journal was written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Status describes how a recorded pass ended.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one journaled categorization pass.
type Run struct {
	ID                  int64
	RunID               string
	StartedAt           time.Time
	FinishedAt          time.Time
	Status              Status
	ErrorMessage        string
	DryRun              bool
	UncategorizedBefore int
	UncategorizedAfter  int
	Resolved            int
	Candidates          int
	Attempted           int
	Accepted            int
	Rejected            int
	Excluded            int
	Skipped             int
	Declined            int
	CatalogSync         string
}

// Store manages the run journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal location on disk.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: journal has version %d, expected %d (run 'curator history clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

const runColumns = "id, run_id, started_at, finished_at, status, error_message, dry_run, uncategorized_before, uncategorized_after, resolved, candidates, attempted, accepted, rejected, excluded, skipped, declined, catalog_sync"

// RecordRun journals one finished pass. The error, when present, marks the
// row as failed and is stored verbatim.
func (s *Store) RecordRun(ctx context.Context, summary *dispatch.RunSummary, runErr error) (*Run, error) {
	if summary == nil {
		return nil, errors.New("summary is nil")
	}
	status := StatusCompleted
	var errorMessage any
	if runErr != nil {
		status = StatusFailed
		errorMessage = runErr.Error()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sync_runs (
            run_id, started_at, finished_at, status, error_message, dry_run,
            uncategorized_before, uncategorized_after, resolved, candidates,
            attempted, accepted, rejected, excluded, skipped, declined, catalog_sync
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(status),
		errorMessage,
		boolToInt(summary.DryRun),
		summary.UncategorizedBefore,
		summary.UncategorizedAfter,
		summary.Resolved,
		summary.Candidates,
		summary.Attempted,
		summary.Accepted,
		summary.Rejected,
		summary.Excluded,
		summary.Skipped,
		summary.Declined,
		string(summary.CatalogSync),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a journaled run by row identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM sync_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Latest returns the most recent journaled run, or nil when the journal is empty.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM sync_runs ORDER BY id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A limit below one
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes all but the newest keep rows. It returns how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM sync_runs WHERE id NOT IN (SELECT id FROM sync_runs ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// Clear removes every journaled run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

// Count returns the number of journaled runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sync_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id           int64
		runID        string
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
		statusStr    string
		errorMessage sql.NullString
		dryRun       sql.NullInt64
		before       int
		after        int
		resolved     int
		candidates   int
		attempted    int
		accepted     int
		rejected     int
		excluded     int
		skipped      int
		declined     int
		catalogSync  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&startedRaw,
		&finishedRaw,
		&statusStr,
		&errorMessage,
		&dryRun,
		&before,
		&after,
		&resolved,
		&candidates,
		&attempted,
		&accepted,
		&rejected,
		&excluded,
		&skipped,
		&declined,
		&catalogSync,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:                  id,
		RunID:               runID,
		Status:              Status(statusStr),
		ErrorMessage:        errorMessage.String,
		UncategorizedBefore: before,
		UncategorizedAfter:  after,
		Resolved:            resolved,
		Candidates:          candidates,
		Attempted:           attempted,
		Accepted:            accepted,
		Rejected:            rejected,
		Excluded:            excluded,
		Skipped:             skipped,
		Declined:            declined,
		CatalogSync:         catalogSync.String,
	}
	if dryRun.Valid {
		run.DryRun = dryRun.Int64 != 0
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw.String); err == nil {
		run.FinishedAt = finished
	}
	return run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
