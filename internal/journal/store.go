package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ladsync/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; operators delete the journal to adopt the new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists run and per-day outcomes in SQLite. It is strictly
// observational: scheduling decisions consult the archive filesystem, never
// this database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "journal.db"))
}

// OpenPath opens the journal at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// BeginRun records the start of a scheduler invocation.
func (s *Store) BeginRun(ctx context.Context, id, mode string, startYear, endYear int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, start_year, end_year, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, mode, startYear, endYear, RunRunning, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the final status of a run. The error message is stored
// verbatim for operator diagnosis.
func (s *Store) FinishRun(ctx context.Context, id string, status RunStatus, errMessage string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, nullableString(errMessage), time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordDay appends one per-day outcome.
func (s *Store) RecordDay(ctx context.Context, result DayResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO day_results (run_id, year, doy, platform, outcome, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Year, result.DOY,
		nullableString(result.Platform), result.Outcome, nullableString(result.Detail),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert day result: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs with aggregated day counts.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.mode, r.start_year, r.end_year, r.status, COALESCE(r.error, ''),
                r.started_at, r.finished_at,
                COALESCE(SUM(CASE WHEN d.outcome = 'archived' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN d.outcome = 'skipped' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN d.outcome = 'missing' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN d.outcome = 'day_failure' THEN 1 ELSE 0 END), 0)
         FROM runs r
         LEFT JOIN day_results d ON d.run_id = r.id
         GROUP BY r.id
         ORDER BY r.started_at DESC
         LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			summary    RunSummary
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(
			&summary.Run.ID, &summary.Run.Mode, &summary.Run.StartYear, &summary.Run.EndYear,
			&summary.Run.Status, &summary.Run.Error, &startedAt, &finishedAt,
			&summary.Archived, &summary.Skipped, &summary.Missing, &summary.Failed,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			summary.Run.StartedAt = t
		}
		if finishedAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
				summary.Run.FinishedAt = &t
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// FailedDays lists the day-level failures of one run, newest day first.
func (s *Store) FailedDays(ctx context.Context, runID string) ([]DayResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, year, doy, COALESCE(platform, ''), outcome, COALESCE(detail, ''), created_at
         FROM day_results
         WHERE run_id = ? AND outcome = 'day_failure'
         ORDER BY year DESC, doy DESC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed days: %w", err)
	}
	defer rows.Close()

	var results []DayResult
	for rows.Next() {
		var (
			result    DayResult
			createdAt string
		)
		if err := rows.Scan(&result.RunID, &result.Year, &result.DOY,
			&result.Platform, &result.Outcome, &result.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan day result: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			result.CreatedAt = t
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
