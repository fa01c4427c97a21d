package schedule

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse failures. Both mean "no value" downstream; they differ only in logs.
var (
	ErrEmptyTime   = errors.New("time is empty")
	ErrInvalidTime = errors.New("time is not a recognizable time of day")
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// TimeOfDay is minutes since 00:00, in [0, 1439].
type TimeOfDay int

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return MinutesToTime(int(t))
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// clockOnly matches text made only of clock characters. Such text that no
// clock layout accepts is malformed; dateparse would read it as a date.
var clockOnly = regexp.MustCompile(`^[\d\s:.]+(?:[AP]\.?M\.?)?$`)

// clockLayouts are the time-only forms tried before free-form parsing.
var clockLayouts = []string{
	"15:04",
	"15:4",
	"3:04 PM",
	"3:4 PM",
	"3:04:05 PM",
	"03:04 PM",
	"3:04PM",
	"3:04:05PM",
}

// ParseTime converts a raw cell into a time of day. Inputs are tried in order:
// time-typed cells, H:MM[:SS] text (12-hour forms included), fraction-of-day
// numbers, then free-form date/time text. Seconds are ignored.
func ParseTime(v Value) (TimeOfDay, error) {
	if v.IsBlank() {
		return 0, ErrEmptyTime
	}

	switch v.kind {
	case KindTime:
		return TimeOfDay(v.tm.Hour()*60 + v.tm.Minute()), nil
	case KindNumber:
		return fromDayFraction(v.num)
	}

	s := strings.TrimSpace(v.text)
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59 {
			return TimeOfDay(hh*60 + mm), nil
		}
	}
	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	if f, ok := v.numeric(); ok {
		return fromDayFraction(f)
	}
	if clockOnly.MatchString(upper) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	t, err := dateparse.ParseAny(s)
	// Year 0 means dateparse took the clock for a month and day.
	if err != nil || t.Year() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// fromDayFraction maps a spreadsheet serial to its time of day:
// round(f*1440) mod 1440.
func fromDayFraction(f float64) (TimeOfDay, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidTime
	}
	m := math.Mod(math.Round(f*MinutesPerDay), MinutesPerDay)
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay(int(m)), nil
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns -1 for invalid input.
func TimeToMinutes(t string) int {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return -1
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return -1
	}
	return hh*60 + mm
}

// MinutesToTime formats minutes on a 24h clock as "HH:MM".
// Values past midnight wrap, so 1450 renders as "00:10".
func MinutesToTime(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatSpan formats a duration in minutes as "HH:MM" without wrapping.
func FormatSpan(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
