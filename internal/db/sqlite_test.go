package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

func newRun(source, sector string, created time.Time) *history.Run {
	r := &history.Run{
		Source:       source,
		Digest:       "d41d8cd9",
		Sector:       sector,
		Points:       12,
		Frequency:    "SEG/QUA",
		Policy:       schedule.PolicyHeuristic,
		GapThreshold: 10,
		AgendaRows:   20,
		Partials:     1,
		TotalGaps:    3,
		CreatedAt:    created,
	}
	for _, d := range schedule.Weekdays() {
		r.Days = append(r.Days, history.Day{Weekday: d})
	}
	r.Days[schedule.Monday] = history.Day{
		Weekday:     schedule.Monday,
		Entries:     10,
		Partials:    1,
		MinTime:     "23:30",
		MaxTime:     "01:10",
		SpanMinutes: 100,
		Crosses:     true,
		Gaps:        2,
	}
	return r
}

func TestCreateRun(t *testing.T) {
	repo := newTestRepo(t)

	r := newRun("rota.xlsx", "PR18", time.Now())
	if err := repo.CreateRun(context.Background(), r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if r.ID == 0 {
		t.Error("expected ID to be set after insert")
	}
}

func TestCreateRun_Invalid(t *testing.T) {
	repo := newTestRepo(t)

	r := newRun("", "PR18", time.Now())
	err := repo.CreateRun(context.Background(), r)
	if !errors.Is(err, history.ErrEmptySource) {
		t.Errorf("expected ErrEmptySource, got %v", err)
	}
}

func TestGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2025, 2, 10, 8, 30, 0, 0, time.UTC)
	r := newRun("rota.xlsx", "PR18", created)
	if err := repo.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	got, err := repo.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.Digest != "d41d8cd9" || got.Partials != 1 {
		t.Errorf("unexpected digest/partials: %+v", got)
	}
	if got.Source != "rota.xlsx" || got.Sector != "PR18" || got.Frequency != "SEG/QUA" {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.Policy != schedule.PolicyHeuristic || got.GapThreshold != 10 || got.TotalGaps != 3 {
		t.Errorf("unexpected run settings: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
	}
	if len(got.Days) != schedule.DaysPerWeek {
		t.Fatalf("expected 7 days, got %d", len(got.Days))
	}

	seg := got.Days[schedule.Monday]
	if seg != r.Days[schedule.Monday] {
		t.Errorf("SEG day = %+v, want %+v", seg, r.Days[schedule.Monday])
	}
	if got.Days[schedule.Sunday].Weekday != schedule.Sunday {
		t.Errorf("days out of order: %+v", got.Days)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRun(context.Background(), 99999)
	if !errors.Is(err, history.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	for i, sector := range []string{"PR18", "CV01", "PR18"} {
		r := newRun("rota.xlsx", sector, base.Add(time.Duration(i)*time.Hour))
		if err := repo.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	runs, err := repo.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Error("expected most recent run first")
	}
	for _, r := range runs {
		if len(r.Days) != schedule.DaysPerWeek {
			t.Errorf("run %d has %d days", r.ID, len(r.Days))
		}
	}

	limited, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(limited))
	}

	bySector, err := repo.ListRunsBySector(ctx, "PR18")
	if err != nil {
		t.Fatalf("ListRunsBySector failed: %v", err)
	}
	if len(bySector) != 2 {
		t.Errorf("expected 2 PR18 runs, got %d", len(bySector))
	}
}

func TestListRuns_Empty(t *testing.T) {
	repo := newTestRepo(t)

	runs, err := repo.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestDeleteRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	r := newRun("rota.xlsx", "PR18", time.Now())
	if err := repo.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if err := repo.DeleteRun(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := repo.GetRun(ctx, r.ID); !errors.Is(err, history.ErrRunNotFound) {
		t.Errorf("expected deleted run to be gone, got %v", err)
	}
	if err := repo.DeleteRun(ctx, r.ID); !errors.Is(err, history.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on second delete, got %v", err)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = repo.Close()
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
