package schedule

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindTime
)

// Value is a raw, loosely typed spreadsheet cell.
// Only the time parser and order coercion look inside it.
type Value struct {
	kind Kind
	text string
	num  float64
	tm   time.Time
}

// Null returns an empty cell.
func Null() Value { return Value{} }

// Text returns a string cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell (including spreadsheet date/time serials).
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// NumberText returns a numeric cell that keeps its source text, so "007"
// still displays as "007". Only the time parser and order coercion use f.
func NumberText(f float64, raw string) Value {
	return Value{kind: KindNumber, num: f, text: raw}
}

// Time returns a time-of-day or datetime cell.
func Time(t time.Time) Value { return Value{kind: KindTime, tm: t} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsBlank returns true for null cells and whitespace-only or "nan" text.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		s := strings.TrimSpace(v.text)
		return s == "" || strings.EqualFold(s, "nan")
	case KindNumber:
		return math.IsNaN(v.num)
	default:
		return false
	}
}

// String renders the cell as display text. Blank cells render as "".
func (v Value) String() string {
	if v.IsBlank() {
		return ""
	}
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text)
	case KindNumber:
		if s := strings.TrimSpace(v.text); s != "" {
			return s
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		if v.tm.Year() <= 1 {
			return v.tm.Format("15:04:05")
		}
		return v.tm.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// numeric returns the cell as a float if it holds a finite number
// or text that parses as one.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseOrder coerces a cell into an integer visit order.
// Non-integer or unparsable values are absent.
func ParseOrder(v Value) (int, bool) {
	f, ok := v.numeric()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
