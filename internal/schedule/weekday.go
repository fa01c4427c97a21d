package schedule

import "strings"

// Weekday is a day of the route week, 0=Monday (SEG) through 6=Sunday (DOM).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of weekdays in a route week.
const DaysPerWeek = 7

// Column name prefixes for a weekday pair.
const (
	TimePrefix           = "HORARIO"
	OrderPrefix          = "ORDEM"
	CollectionFormPrefix = "FORMACOLETA"
)

var weekdayCodes = [DaysPerWeek]string{"SEG", "TER", "QUA", "QUI", "SEX", "SAB", "DOM"}

// Weekdays returns all weekdays in canonical order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Valid returns true if d is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Code returns the 3-letter code (SEG, TER, ...). Returns "" if out of range.
func (d Weekday) Code() string {
	if !d.Valid() {
		return ""
	}
	return weekdayCodes[d]
}

func (d Weekday) String() string {
	return d.Code()
}

// TimeColumn returns the time column name, e.g. HORARIOSEG.
func (d Weekday) TimeColumn() string {
	return TimePrefix + d.Code()
}

// OrderColumn returns the order column name, e.g. ORDEMSEG.
func (d Weekday) OrderColumn() string {
	return OrderPrefix + d.Code()
}

// CollectionFormColumn returns the per-day collection form column, e.g. FORMACOLETASEG.
func (d Weekday) CollectionFormColumn() string {
	return CollectionFormPrefix + d.Code()
}

// ParseWeekday resolves a 3-letter code, case-insensitive.
func ParseWeekday(code string) (Weekday, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range weekdayCodes {
		if c == code {
			return Weekday(i), true
		}
	}
	return -1, false
}

// JoinWeekdays joins weekday codes with "/" in canonical order.
func JoinWeekdays(days []Weekday) string {
	var present [DaysPerWeek]bool
	for _, d := range days {
		if d.Valid() {
			present[d] = true
		}
	}
	codes := make([]string, 0, len(days))
	for i, ok := range present {
		if ok {
			codes = append(codes, weekdayCodes[i])
		}
	}
	return strings.Join(codes, "/")
}
