// Package schedule normalizes a weekly collection route: it parses raw
// weekday (time, order) columns, reconciles midnight-crossing shifts,
// flags gaps, and assembles the long-form agenda.
package schedule

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Default detection thresholds.
const (
	DefaultEveningHour = 18
	DefaultMorningHour = 10
)

// DefaultCrossingShifts are the shift labels treated as midnight-crossing.
var DefaultCrossingShifts = []string{"NOTURNO", "VESPERTINO"}

// ShiftColumn holds the shift/turn label.
const ShiftColumn = "TURNO"

// ContextColumns are copied from each row into the agenda, when present.
var ContextColumns = []string{
	"ID", "SETOR", "TIPOCOLETA", "FREQUENCIA", "TURNO",
	"TIPO", "TITULO", "PREPOSICAO", "LOGRADOURO",
	"INICIO", "FIM", "DISTRITO", "SUBPREFEITURA",
}

// Options configures NormalizeWeek.
type Options struct {
	GapThreshold   int
	GapInclusive   bool
	EveningHour    int
	MorningHour    int
	Policy         CrossingPolicy
	CrossingShifts []string
	// Parallel runs the seven weekdays concurrently. Results are identical.
	Parallel bool
	Logger   *slog.Logger
}

// DefaultOptions returns the standard thresholds: 10-minute gaps (strict),
// 18:00 evening, 10:00 morning, heuristic-only crossing detection.
func DefaultOptions() Options {
	return Options{
		GapThreshold:   DefaultGapThreshold,
		EveningHour:    DefaultEveningHour,
		MorningHour:    DefaultMorningHour,
		Policy:         PolicyHeuristic,
		CrossingShifts: slices.Clone(DefaultCrossingShifts),
	}
}

// AgendaRow is one complete (row, weekday) pair with the row's context.
type AgendaRow struct {
	RowIndex       int
	RowID          string
	Context        []string // aligned with Agenda.ContextColumns
	Weekday        Weekday
	Order          int
	Time           TimeOfDay
	CollectionForm string
}

// Agenda is the long-form table, sorted by (row ID, weekday, order).
type Agenda struct {
	ContextColumns []string
	Rows           []AgendaRow
}

// Len returns the number of agenda rows.
func (a Agenda) Len() int {
	return len(a.Rows)
}

// Weekdays returns the weekdays with at least one agenda row, in canonical order.
func (a Agenda) Weekdays() []Weekday {
	var seen [DaysPerWeek]bool
	for _, r := range a.Rows {
		seen[r.Weekday] = true
	}
	var out []Weekday
	for _, d := range Weekdays() {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}

// Week is the full result of normalizing one table.
type Week struct {
	Agenda    Agenda
	Days      [DaysPerWeek]DaySummary
	Timelines [DaysPerWeek]Timeline
	Partials  []Partial
	Shift     ShiftSignal
}

// Counts returns the number of complete entries per weekday.
func (w *Week) Counts() [DaysPerWeek]int {
	var out [DaysPerWeek]int
	for i, s := range w.Days {
		out[i] = s.EntryCount
	}
	return out
}

// Frequency returns the scheduled weekdays joined in canonical order,
// e.g. "SEG/TER/QUI". Empty when nothing is scheduled.
func (w *Week) Frequency() string {
	var days []Weekday
	for _, s := range w.Days {
		if s.HasEntries() {
			days = append(days, s.Weekday)
		}
	}
	return JoinWeekdays(days)
}

// TotalGaps returns the number of gap records across all weekdays.
func (w *Week) TotalGaps() int {
	n := 0
	for _, s := range w.Days {
		n += len(s.Gaps)
	}
	return n
}

// NormalizeWeek runs build, reconcile, and annotate for each weekday
// independently and merges the results. The table is not modified.
func NormalizeWeek(t *Table, opts Options) *Week {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !opts.Policy.Valid() {
		opts.Policy = PolicyHeuristic
	}
	if t == nil {
		t = NewTable(nil, nil)
	}

	w := &Week{Shift: ShiftSignalFor(t, opts.CrossingShifts)}
	schedules := make([]DaySchedule, DaysPerWeek)

	runDay := func(d Weekday) {
		ds := buildDay(t, d, opts.Logger)
		tl := Reconcile(d, ds.Entries, ReconcileOptions{
			EveningHour: opts.EveningHour,
			MorningHour: opts.MorningHour,
			Policy:      opts.Policy,
			Shift:       w.Shift,
		})
		sum := Annotate(tl, GapOptions{Threshold: opts.GapThreshold, Inclusive: opts.GapInclusive})
		sum.PartialCount = len(ds.Partials)

		schedules[d] = ds
		w.Timelines[d] = tl
		w.Days[d] = sum
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		for _, d := range Weekdays() {
			wg.Add(1)
			go func(d Weekday) {
				defer wg.Done()
				runDay(d)
			}(d)
		}
		wg.Wait()
	} else {
		for _, d := range Weekdays() {
			runDay(d)
		}
	}

	for _, ds := range schedules {
		w.Partials = append(w.Partials, ds.Partials...)
	}
	slices.SortStableFunc(w.Partials, func(a, b Partial) int {
		if c := compareRowIDs(a.RowID, b.RowID); c != 0 {
			return c
		}
		if a.RowIndex != b.RowIndex {
			return a.RowIndex - b.RowIndex
		}
		return int(a.Weekday) - int(b.Weekday)
	})

	w.Agenda = buildAgenda(t, schedules)

	opts.Logger.Debug("week normalized",
		"rows", t.Len(),
		"agenda", w.Agenda.Len(),
		"partials", len(w.Partials),
		"frequency", w.Frequency(),
	)
	return w
}

func buildAgenda(t *Table, schedules []DaySchedule) Agenda {
	a := Agenda{}
	for _, c := range ContextColumns {
		if t.HasColumn(c) {
			a.ContextColumns = append(a.ContextColumns, c)
		}
	}

	rows := t.Rows()
	for _, ds := range schedules {
		formCol := ds.Weekday.CollectionFormColumn()
		for _, e := range ds.Entries {
			r := rows[e.RowIndex]
			ctx := make([]string, len(a.ContextColumns))
			for i, c := range a.ContextColumns {
				ctx[i] = r.Field(c)
			}
			a.Rows = append(a.Rows, AgendaRow{
				RowIndex:       e.RowIndex,
				RowID:          e.RowID,
				Context:        ctx,
				Weekday:        ds.Weekday,
				Order:          e.Order,
				Time:           e.Time,
				CollectionForm: r.Field(formCol),
			})
		}
	}

	slices.SortStableFunc(a.Rows, func(x, y AgendaRow) int {
		if c := compareRowIDs(x.RowID, y.RowID); c != 0 {
			return c
		}
		if x.Weekday != y.Weekday {
			return int(x.Weekday) - int(y.Weekday)
		}
		return x.Order - y.Order
	})
	return a
}

// ShiftSignalFor derives the crossing hint from the table's shift column.
// The label must collapse to a single value; anything else is unknown.
func ShiftSignalFor(t *Table, crossingShifts []string) ShiftSignal {
	c := Collapse(t, ShiftColumn)
	if c.Kind != CollapseSingle {
		return ShiftUnknown
	}
	for _, s := range crossingShifts {
		if strings.EqualFold(strings.TrimSpace(s), c.Value) {
			return ShiftCrosses
		}
	}
	return ShiftDaytime
}
