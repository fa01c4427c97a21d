// Package history defines the recorded normalization runs.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Validation errors.
var (
	ErrEmptySource = errors.New("source cannot be empty")
	ErrMissingDays = errors.New("run must have one entry per weekday")
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one normalization of a route table.
type Run struct {
	ID           int64
	Source       string // file name as given by the user
	Digest       string // hex sha256 of the source bytes
	Sector       string
	Points       int
	Frequency    string // e.g. "SEG/QUA/SEX"
	Policy       schedule.CrossingPolicy
	GapThreshold int
	AgendaRows   int
	Partials     int
	TotalGaps    int
	CreatedAt    time.Time
	Days         []Day // always seven, SEG..DOM
}

// Day is the stored summary of one weekday within a run.
type Day struct {
	Weekday     schedule.Weekday
	Entries     int
	Partials    int
	MinTime     string // "HH:MM", empty when Entries is 0
	MaxTime     string
	SpanMinutes int
	Crosses     bool
	Gaps        int
}

// Digest returns the hex sha256 of a source file's bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FromWeek builds a run record from a normalized week.
func FromWeek(source, digest string, w *schedule.Week, sector schedule.SectorSummary, opts schedule.Options, now time.Time) (*Run, error) {
	r := &Run{
		Source:       source,
		Digest:       digest,
		Sector:       sector.Sector,
		Points:       sector.Points,
		Frequency:    sector.Frequency,
		Policy:       opts.Policy,
		GapThreshold: opts.GapThreshold,
		AgendaRows:   w.Agenda.Len(),
		Partials:     len(w.Partials),
		TotalGaps:    w.TotalGaps(),
		CreatedAt:    now,
		Days:         make([]Day, 0, schedule.DaysPerWeek),
	}
	for _, s := range w.Days {
		d := Day{
			Weekday:  s.Weekday,
			Entries:  s.EntryCount,
			Partials: s.PartialCount,
			Crosses:  s.Crosses,
			Gaps:     len(s.Gaps),
		}
		if s.HasEntries() {
			d.MinTime = s.MinTime.String()
			d.MaxTime = s.MaxTime.String()
			d.SpanMinutes = s.SpanMinutes
		}
		r.Days = append(r.Days, d)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the run before it is stored.
func (r *Run) Validate() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if len(r.Days) != schedule.DaysPerWeek {
		return ErrMissingDays
	}
	for i, d := range r.Days {
		if d.Weekday != schedule.Weekday(i) {
			return ErrMissingDays
		}
	}
	return nil
}

// Counts returns the entry count per weekday.
func (r *Run) Counts() [schedule.DaysPerWeek]int {
	var out [schedule.DaysPerWeek]int
	for _, d := range r.Days {
		if d.Weekday.Valid() {
			out[d.Weekday] = d.Entries
		}
	}
	return out
}

// Repository defines the storage interface for runs.
type Repository interface {
	// CreateRun stores a run and its days, setting r.ID.
	CreateRun(ctx context.Context, r *Run) error

	// GetRun retrieves a run by ID. Returns ErrRunNotFound if absent.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns the most recent runs first, days included.
	// limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// ListRunsBySector returns the runs for one sector, most recent first.
	ListRunsBySector(ctx context.Context, sector string) ([]*Run, error)

	// DeleteRun removes a run and its days.
	DeleteRun(ctx context.Context, id int64) error

	// Close releases any resources held by the repository.
	Close() error
}
