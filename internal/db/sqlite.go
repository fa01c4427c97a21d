// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// SQLite implements history.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ history.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if missing.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateRun stores a run and its seven days in one transaction.
func (s *SQLite) CreateRun(ctx context.Context, r *history.Run) error {
	if err := r.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO runs (
			source, digest, sector, points, frequency, policy, gap_threshold,
			agenda_rows, partials, total_gaps, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		r.Source,
		r.Digest,
		r.Sector,
		r.Points,
		r.Frequency,
		string(r.Policy),
		r.GapThreshold,
		r.AgendaRows,
		r.Partials,
		r.TotalGaps,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	dayQuery := `
		INSERT INTO run_days (
			run_id, weekday, entries, partials, min_time, max_time,
			span_minutes, crosses, gaps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, d := range r.Days {
		_, err := tx.ExecContext(ctx, dayQuery,
			id,
			int(d.Weekday),
			d.Entries,
			d.Partials,
			d.MinTime,
			d.MaxTime,
			d.SpanMinutes,
			d.Crosses,
			d.Gaps,
		)
		if err != nil {
			return fmt.Errorf("inserting %s day: %w", d.Weekday, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	r.ID = id
	return nil
}

const runColumns = `
	SELECT id, source, digest, sector, points, frequency, policy, gap_threshold,
	       agenda_rows, partials, total_gaps, created_at
	FROM runs
`

// GetRun retrieves a run by ID.
func (s *SQLite) GetRun(ctx context.Context, id int64) (*history.Run, error) {
	row := s.db.QueryRowContext(ctx, runColumns+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", history.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	if err := s.loadDays(ctx, []*history.Run{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]*history.Run, error) {
	query := runColumns + ` ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// ListRunsBySector returns the runs for one sector, most recent first.
func (s *SQLite) ListRunsBySector(ctx context.Context, sector string) ([]*history.Run, error) {
	query := runColumns + ` WHERE sector = ? ORDER BY created_at DESC, id DESC`
	return s.queryRuns(ctx, query, sector)
}

// DeleteRun removes a run and its days.
func (s *SQLite) DeleteRun(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_days WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("deleting run days: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", history.ErrRunNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) queryRuns(ctx context.Context, query string, args ...any) ([]*history.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*history.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	_ = rows.Close()

	if err := s.loadDays(ctx, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// loadDays fills Days for each run.
func (s *SQLite) loadDays(ctx context.Context, runs []*history.Run) error {
	query := `
		SELECT weekday, entries, partials, min_time, max_time, span_minutes, crosses, gaps
		FROM run_days
		WHERE run_id = ?
		ORDER BY weekday
	`
	for _, r := range runs {
		rows, err := s.db.QueryContext(ctx, query, r.ID)
		if err != nil {
			return fmt.Errorf("querying run days: %w", err)
		}

		r.Days = make([]history.Day, 0, schedule.DaysPerWeek)
		for rows.Next() {
			var (
				d       history.Day
				weekday int
			)
			err := rows.Scan(
				&weekday,
				&d.Entries,
				&d.Partials,
				&d.MinTime,
				&d.MaxTime,
				&d.SpanMinutes,
				&d.Crosses,
				&d.Gaps,
			)
			if err != nil {
				_ = rows.Close()
				return fmt.Errorf("scanning run day: %w", err)
			}
			d.Weekday = schedule.Weekday(weekday)
			r.Days = append(r.Days, d)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return fmt.Errorf("iterating run days: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*history.Run, error) {
	var (
		r         history.Run
		policy    string
		createdAt string
	)
	err := sc.Scan(
		&r.ID,
		&r.Source,
		&r.Digest,
		&r.Sector,
		&r.Points,
		&r.Frequency,
		&policy,
		&r.GapThreshold,
		&r.AgendaRows,
		&r.Partials,
		&r.TotalGaps,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Policy = schedule.CrossingPolicy(policy)
	r.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &r, nil
}

// parseTimestamp parses a timestamp in the formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
