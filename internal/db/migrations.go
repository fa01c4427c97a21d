package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			source        TEXT NOT NULL,
			digest        TEXT NOT NULL DEFAULT '',
			sector        TEXT NOT NULL DEFAULT '',
			points        INTEGER NOT NULL DEFAULT 0,
			frequency     TEXT NOT NULL DEFAULT '',
			policy        TEXT NOT NULL CHECK(policy IN ('heuristic', 'shift', 'either', 'both')),
			gap_threshold INTEGER NOT NULL,
			agenda_rows   INTEGER NOT NULL DEFAULT 0,
			partials      INTEGER NOT NULL DEFAULT 0,
			total_gaps    INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_days (
			run_id       INTEGER NOT NULL REFERENCES runs(id),
			weekday      INTEGER NOT NULL CHECK(weekday BETWEEN 0 AND 6),
			entries      INTEGER NOT NULL DEFAULT 0,
			partials     INTEGER NOT NULL DEFAULT 0,
			min_time     TEXT NOT NULL DEFAULT '',
			max_time     TEXT NOT NULL DEFAULT '',
			span_minutes INTEGER NOT NULL DEFAULT 0,
			crosses      INTEGER NOT NULL DEFAULT 0,
			gaps         INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, weekday)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_sector ON runs(sector);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating run tables: %w", err)
	}

	return nil
}
