package schedule

import (
	"errors"
	"log/slog"
	"slices"
)

// DayEntry is one point's complete (order, time) pair for a weekday.
type DayEntry struct {
	RowIndex int
	RowID    string
	Order    int
	Time     TimeOfDay
}

// Partial is a row that has only one of the two weekday fields.
type Partial struct {
	RowIndex int
	RowID    string
	Weekday  Weekday
	Order    int
	HasOrder bool
	Time     TimeOfDay
	HasTime  bool
}

// DaySchedule holds the complete entries for one weekday, sorted by order,
// plus the partial rows that were left out.
type DaySchedule struct {
	Weekday  Weekday
	Entries  []DayEntry
	Partials []Partial
}

// BuildDay extracts the complete pairs for a weekday. Entries are stably
// sorted by order; duplicate and non-contiguous orders are kept.
func BuildDay(t *Table, d Weekday) DaySchedule {
	return buildDay(t, d, nil)
}

func buildDay(t *Table, d Weekday, logger *slog.Logger) DaySchedule {
	ds := DaySchedule{Weekday: d}
	if t == nil || !t.HasDay(d) {
		return ds
	}

	for _, r := range t.Rows() {
		tm, terr := ParseTime(r.Time(d))
		order, hasOrder := ParseOrder(r.Order(d))
		hasTime := terr == nil

		if terr != nil && logger != nil {
			reason := "malformed"
			if errors.Is(terr, ErrEmptyTime) {
				reason = "empty"
			}
			// Blank time with blank order is just an unscheduled row.
			if reason == "malformed" || hasOrder {
				logger.Debug("discarding time", "weekday", d.Code(), "row", r.ID(), "reason", reason, "error", terr)
			}
		}

		switch {
		case hasTime && hasOrder:
			ds.Entries = append(ds.Entries, DayEntry{
				RowIndex: r.Index,
				RowID:    r.ID(),
				Order:    order,
				Time:     tm,
			})
		case hasTime || hasOrder:
			ds.Partials = append(ds.Partials, Partial{
				RowIndex: r.Index,
				RowID:    r.ID(),
				Weekday:  d,
				Order:    order,
				HasOrder: hasOrder,
				Time:     tm,
				HasTime:  hasTime,
			})
		}
	}

	sortByOrder(ds.Entries)
	return ds
}

// sortByOrder stably sorts entries by order, ties by source row position.
func sortByOrder(entries []DayEntry) {
	slices.SortStableFunc(entries, func(a, b DayEntry) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.RowIndex - b.RowIndex
	})
}
