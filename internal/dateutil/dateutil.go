// Package dateutil parses the date filters of the run history.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be YYYY-MM-DD, a weekday code, hoje, ontem, semana or <n>d")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInFuture       = errors.New("date is in the future")
)

// keywords map the accepted words to a day offset from today.
var keywords = map[string]int{
	"hoje":      0,
	"today":     0,
	"ontem":     -1,
	"yesterday": -1,
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses since and until relative to now. Either may be empty.
func NewDateRange(since, until string, now time.Time) (*DateRange, error) {
	dr := &DateRange{}
	var err error
	if since != "" {
		if dr.Start, err = ParseRelativeDate(since, now); err != nil {
			return nil, err
		}
	}
	if until != "" {
		if dr.End, err = ParseRelativeDate(until, now); err != nil {
			return nil, err
		}
	}
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.End.Before(dr.Start) {
		return nil, ErrEndDateBeforeStart
	}
	return dr, nil
}

// IsOpen returns true if neither bound is set.
func (dr *DateRange) IsOpen() bool {
	return dr == nil || (dr.Start.IsZero() && dr.End.IsZero())
}

// Contains reports whether t falls on a day within the range, compared in
// the range's own location.
func (dr *DateRange) Contains(t time.Time) bool {
	if dr.IsOpen() {
		return true
	}
	if !dr.Start.IsZero() && t.Before(dr.Start) {
		return false
	}
	if !dr.End.IsZero() && !t.Before(dr.End.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a day at or before relativeTo:
//   - "hoje"/"today" and "ontem"/"yesterday"
//   - "semana": Monday of the current week
//   - a route weekday code, SEG through DOM: its latest occurrence, today included
//   - "<n>d": n days ago
//   - an absolute date, YYYY-MM-DD
//
// Input is case-insensitive. Absolute dates after relativeTo return
// ErrDateInFuture.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	if offset, ok := keywords[input]; ok {
		return today.AddDate(0, 0, offset), nil
	}
	if input == "semana" {
		monday, _ := WeekRange(today)
		return monday, nil
	}
	if d, ok := schedule.ParseWeekday(input); ok {
		return lastWeekday(today, d), nil
	}
	if n, ok := strings.CutSuffix(input, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil || days < 0 {
			return time.Time{}, ErrInvalidDateFormat
		}
		return today.AddDate(0, 0, -days), nil
	}

	result, err := time.ParseInLocation("2006-01-02", input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if result.After(today) {
		return time.Time{}, ErrDateInFuture
	}
	return result, nil
}

// lastWeekday returns the latest day on or before today that falls on d.
func lastWeekday(today time.Time, d schedule.Weekday) time.Time {
	// schedule weekdays start on Monday, time.Weekday on Sunday
	target := (int(d) + 1) % 7
	back := int(today.Weekday()) - target
	if back < 0 {
		back += 7
	}
	return today.AddDate(0, 0, -back)
}
